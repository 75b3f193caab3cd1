package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asistente/internal/commands"
	"asistente/internal/database"
	"asistente/internal/intent"
	"asistente/internal/ollama"
	"asistente/internal/reminders"
	"asistente/internal/tools"
	"asistente/internal/whatsapp"
)

const historyWindow = 8

// Transport delivers outbound messages.
type Transport interface {
	SendText(ctx context.Context, chatID, text string) error
}

// Processor consumes inbound messages and runs them through the pipeline:
// whitelist, slash commands, postponement, reminder intent, tool calls,
// free chat.
type Processor struct {
	db        *database.DB
	cmds      *commands.Handler
	extractor intent.Extractor
	svc       *reminders.Service
	postpone  *reminders.PostponeResolver
	llm       *ollama.Client
	tools     *tools.Dispatcher
	transport Transport

	messages <-chan whatsapp.Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	db *database.DB,
	cmds *commands.Handler,
	extractor intent.Extractor,
	svc *reminders.Service,
	postpone *reminders.PostponeResolver,
	llm *ollama.Client,
	dispatcher *tools.Dispatcher,
	transport Transport,
	messages <-chan whatsapp.Message,
) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		db:        db,
		cmds:      cmds,
		extractor: extractor,
		svc:       svc,
		postpone:  postpone,
		llm:       llm,
		tools:     dispatcher,
		transport: transport,
		messages:  messages,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins consuming the message channel.
func (p *Processor) Start() {
	fmt.Println("Processor: starting")
	p.wg.Add(1)
	go p.loop()
}

// Stop cancels the loop and waits for the in-flight message to finish.
func (p *Processor) Stop() {
	fmt.Println("Processor: stopping...")
	p.cancel()
	p.wg.Wait()
	fmt.Println("Processor: stopped")
}

func (p *Processor) loop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case msg, ok := <-p.messages:
			if !ok {
				return
			}
			p.HandleMessage(p.ctx, msg)
		}
	}
}

// HandleMessage runs one inbound message through the pipeline.
func (p *Processor) HandleMessage(ctx context.Context, msg whatsapp.Message) {
	allowed, err := p.db.IsWhitelisted(msg.Sender)
	if err != nil {
		fmt.Printf("Processor: whitelist check failed for %s: %v\n", msg.Sender, err)
		return
	}
	if !allowed {
		fmt.Printf("Processor: ignoring message from non-whitelisted %s\n", msg.Sender)
		return
	}

	fmt.Printf("[%s] %s\n", msg.Sender, msg.Text)

	if err := p.db.SaveMessage(msg.ChatID, "user", msg.Text); err != nil {
		fmt.Printf("Processor: failed to save message: %v\n", err)
	}

	reply := p.respond(ctx, msg)
	if reply == "" {
		return
	}

	if err := p.db.SaveMessage(msg.ChatID, "assistant", reply); err != nil {
		fmt.Printf("Processor: failed to save reply: %v\n", err)
	}
	if err := p.transport.SendText(ctx, msg.ChatID, reply); err != nil {
		fmt.Printf("Processor: failed to send reply to %s: %v\n", msg.ChatID, err)
	}
}

func (p *Processor) respond(ctx context.Context, msg whatsapp.Message) string {
	if reply, handled := p.cmds.Handle(ctx, msg.ChatID, msg.Text); handled {
		return reply
	}

	now := time.Now()

	if r, ok, err := p.postpone.Resolve(ctx, msg.ChatID, msg.Text, now); err != nil {
		fmt.Printf("Processor: postponement check failed: %v\n", err)
	} else if ok {
		return fmt.Sprintf("Va de nuevo ⏰ Te aviso %s.", reminders.FormatDate(*r.TriggerAt, now))
	}

	ext, err := p.extractor.Extract(ctx, msg.Text, now)
	if err != nil {
		fmt.Printf("Processor: extraction failed: %v\n", err)
	} else if ext.Found {
		return p.createFromIntent(msg.ChatID, ext, now)
	}

	return p.chat(ctx, msg)
}

func (p *Processor) createFromIntent(chatID string, ext *intent.Extraction, now time.Time) string {
	r, err := p.svc.CreateAt(chatID, ext.Message, ext.TriggerAt)
	if err != nil {
		fmt.Printf("Processor: failed to create reminder: %v\n", err)
		return "No pude guardar el recordatorio, intenta de nuevo."
	}
	if r.TriggerAt != nil {
		return fmt.Sprintf("Anotado ✅ Te aviso %s.", reminders.FormatDate(*r.TriggerAt, now))
	}
	return fmt.Sprintf("Anotado como tarea ✅ Usa /fecha %d <cuándo> si quieres programarla.", r.ID)
}

// chat answers free text through the LLM, letting it invoke tools. The
// reply may get an important-context suggestion appended.
func (p *Processor) chat(ctx context.Context, msg whatsapp.Message) string {
	suggestion := ""
	if LooksImportant(msg.Text) {
		suggestion = "\n\n¿Quieres que te lo recuerde? Dímelo con un \"recuérdame...\" y lo anoto."
	}

	if p.llm == nil {
		if suggestion != "" {
			return "Entendido 👍" + suggestion
		}
		return "No tengo un modelo configurado para conversar, pero puedo manejar recordatorios. Usa /ayuda."
	}

	history, err := p.db.GetRecentMessages(msg.ChatID, historyWindow)
	if err != nil {
		fmt.Printf("Processor: failed to load history: %v\n", err)
	}

	msgs := make([]ollama.Message, 0, len(history))
	for _, h := range history {
		msgs = append(msgs, ollama.Message{Role: h.Role, Content: h.Content})
	}

	reply, err := p.llm.Chat(ctx, p.systemPrompt(msg.ChatID), msgs)
	if err != nil {
		fmt.Printf("Processor: chat failed: %v\n", err)
		return "Se me trabó el modelo 😅 Intenta de nuevo en un momento."
	}

	if out, handled := p.tools.TryDispatch(ctx, msg.ChatID, reply); handled {
		return out
	}
	return reply + suggestion
}

func (p *Processor) systemPrompt(chatID string) string {
	name, _ := p.db.GetConfig(database.ConfigKeyName)
	personality, _ := p.db.GetConfig(database.ConfigKeyPersonality)

	var memories []string
	if mems, err := p.db.GetMemories(chatID, 0); err == nil {
		for _, m := range mems {
			memories = append(memories, m.Content)
		}
	}

	return ollama.BuildSystemPrompt(name, personality, memories) + tools.PromptBlock
}
