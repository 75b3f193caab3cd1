package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"asistente/internal/config"
	"asistente/internal/gcal"
)

func newGCalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcal",
		Short: "Conecta Google Calendar",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "auth",
		Short: "Imprime la URL de autorización",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newGCalClient()
			if err != nil {
				return err
			}
			fmt.Println("Abre esta URL, autoriza y copia el código:")
			fmt.Println(client.AuthURL())
			fmt.Println("\nLuego corre: asistentectl gcal code <código>")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "code <código>",
		Short: "Intercambia el código de autorización por un token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newGCalClient()
			if err != nil {
				return err
			}
			if err := client.ExchangeCode(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Google Calendar conectado.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Verifica la conexión",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newGCalClient()
			if err != nil {
				return err
			}
			if client.IsAuthenticated() {
				fmt.Println("Conectado.")
			} else {
				fmt.Println("No conectado. Corre: asistentectl gcal auth")
			}
			return nil
		},
	})

	return cmd
}

func newGCalClient() (*gcal.Client, error) {
	cfg := config.LoadFromEnv()
	return gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
}
