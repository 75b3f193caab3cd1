package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asistente/internal/config"
	"asistente/internal/database"
)

func main() {
	root := &cobra.Command{
		Use:          "asistentectl",
		Short:        "Administración del asistente de WhatsApp",
		SilenceUsage: true,
	}

	root.AddCommand(
		newInitCmd(),
		newWhitelistCmd(),
		newModeloCmd(),
		newStatsCmd(),
		newGCalCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*database.DB, error) {
	cfg := config.LoadFromEnv()
	return database.New(cfg.DBPath)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Crea la base de datos y corre las migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Println("Base de datos inicializada.")
			return nil
		},
	}
}

func newWhitelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Administra los números autorizados",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.GetWhitelist()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("La whitelist está vacía.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s (desde %s)\n", e.PhoneNumber, e.AddedAt.Format("02/01/2006"))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <número>",
		Short: "Agrega un número (formato 521333...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			added, err := db.AddToWhitelist(args[0])
			if err != nil {
				return err
			}
			if !added {
				fmt.Println("Ese número ya estaba en la whitelist.")
				return nil
			}
			fmt.Println("Número agregado.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <número>",
		Short: "Quita un número",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := db.RemoveFromWhitelist(args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println("Ese número no estaba en la whitelist.")
				return nil
			}
			fmt.Println("Número quitado.")
			return nil
		},
	})

	return cmd
}

func newModeloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modelo [nombre]",
		Short: "Muestra o cambia el modelo de Ollama",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 0 {
				model, err := db.GetConfig(database.ConfigKeyModel)
				if err != nil {
					return err
				}
				if model == "" {
					cfg := config.LoadFromEnv()
					model = cfg.OllamaModel + " (default)"
				}
				fmt.Println(model)
				return nil
			}

			if err := db.SetConfig(database.ConfigKeyModel, args[0]); err != nil {
				return err
			}
			fmt.Printf("Modelo cambiado a %s.\n", args[0])
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Muestra contadores de uso",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			st, err := db.GetStats()
			if err != nil {
				return err
			}
			fmt.Printf("Mensajes:                 %d\n", st.TotalMessages)
			fmt.Printf("Recordatorios pendientes: %d\n", st.PendingReminders)
			fmt.Printf("Números en whitelist:     %d\n", st.WhitelistCount)
			fmt.Printf("Memorias:                 %d\n", st.TotalMemories)
			return nil
		},
	}
}
