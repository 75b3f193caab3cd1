package whatsapp

import (
	"context"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	qrcode "github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

type Client struct {
	WAClient  *whatsmeow.Client
	handler   *Handler
	container *sqlstore.Container
}

func NewClient(handler *Handler, dbPath string) (*Client, error) {
	dbLog := waLog.Stdout("Database", "WARN", true)
	clientLog := waLog.Stdout("Client", "WARN", true)

	container, err := sqlstore.New(context.Background(), "sqlite3", "file:"+dbPath+"?_foreign_keys=on", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create session database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	waClient := whatsmeow.NewClient(deviceStore, clientLog)

	c := &Client{
		WAClient:  waClient,
		handler:   handler,
		container: container,
	}

	if handler != nil {
		waClient.AddEventHandler(handler.HandleEvent)
	}

	return c, nil
}

func (c *Client) IsLoggedIn() bool {
	return c.WAClient.Store.ID != nil
}

// Connect establishes the WhatsApp connection. On a device with no stored
// session it drives the QR pairing flow and blocks until paired or timed
// out.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsLoggedIn() {
		return c.WAClient.Connect()
	}

	qrChan, err := c.WAClient.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}

	if err := c.WAClient.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			c.showPairingCode(evt.Code)
		case "success":
			fmt.Println("WhatsApp paired successfully!")
			return nil
		case "timeout":
			return fmt.Errorf("QR pairing timed out")
		}
	}
	return nil
}

// pairingPNGPath is where a fresh pairing code lands as a scannable image.
// Terminals cannot render the code itself, so the file is the UI.
const pairingPNGPath = "asistente_qr.png"

func (c *Client) showPairingCode(code string) {
	if err := qrcode.WriteFile(code, qrcode.Medium, 512, pairingPNGPath); err != nil {
		fmt.Fprintf(os.Stderr, "WhatsApp: could not write pairing QR image: %v\n", err)
		return
	}
	fmt.Printf("WhatsApp: abre %s y escanéalo desde Dispositivos vinculados.\n", pairingPNGPath)
}

func (c *Client) Disconnect() {
	c.WAClient.Disconnect()
}

// SendText delivers a plain text message. The chat id is preferably a full
// JID string; a bare phone number falls back to the default user server.
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	jid, err := types.ParseJID(chatID)
	if err != nil || jid.Server == "" {
		jid = types.NewJID(chatID, types.DefaultUserServer)
	}

	_, err = c.WAClient.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", chatID, err)
	}
	return nil
}

// SendTyping toggles the typing indicator for a chat. Failures only log,
// presence is cosmetic.
func (c *Client) SendTyping(ctx context.Context, chatID string, typing bool) {
	jid, err := types.ParseJID(chatID)
	if err != nil {
		return
	}

	state := types.ChatPresenceComposing
	if !typing {
		state = types.ChatPresencePaused
	}
	if err := c.WAClient.SendChatPresence(ctx, jid, state, types.ChatPresenceMediaText); err != nil {
		fmt.Printf("Warning: could not send chat presence: %v\n", err)
	}
}
