package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeoncrawler/internal/logger"
	"github.com/samdwyer/dungeoncrawler/internal/save"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
	"github.com/samdwyer/dungeoncrawler/internal/ui"
)

// Game connects a session to the terminal.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	store    *save.Store
	log      *logrus.Entry
	message  string
	running  bool
}

// New creates a new game instance around session.
func New(cfg Config, session *Session, store *save.Store) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		session:  session,
		store:    store,
		log:      logger.Component("game").WithField("session", session.ID().String()),
		running:  true,
	}, nil
}

// Run executes the main game loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", g.session.ID().String()),
		attribute.Int("level.start", g.session.Level()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Ticks and attack clears change the view off the input goroutine;
	// wake PollEvent so the loop below redraws.
	g.session.OnChange(g.screen.PostInterrupt)
	go g.session.Run(ctx, g.cfg.Tick)

	g.draw()
	for g.running {
		switch ev := g.screen.PollEvent().(type) {
		case nil:
			g.running = false
		case *tcell.EventKey:
			g.handleKeyEvent(ctx, ev)
		case *tcell.EventResize:
			g.screen.Sync()
			g.session.MarkDirty()
		}

		if g.session.State() == StateDead && g.message == "" {
			g.message = "You died. Press q to quit."
			g.session.MarkDirty()
		}
		if g.session.TakeDirty() {
			g.draw()
		}
	}

	span.SetAttributes(attribute.Int("level.end", g.session.Level()))
	g.screen.Close()
	return nil
}

func (g *Game) draw() {
	g.renderer.Render(g.session.View(), g.message)
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	action := actionForKey(ev)
	switch action.Kind {
	case ActionQuit:
		g.running = false

	case ActionMove:
		res, err := g.session.Move(ctx, action.Dir)
		if err != nil {
			g.log.WithError(err).Error("Move failed")
			g.setMessage("The way down is blocked: " + err.Error())
			return
		}
		if res.NewLevel {
			g.setMessage(fmt.Sprintf("You descend to level %d.", g.session.Level()+1))
		} else if res.Moved && g.message != "" && g.session.State() == StatePlaying {
			g.setMessage("")
		}

	case ActionAttack:
		g.session.Attack()

	case ActionSave:
		if err := g.session.Save(ctx, g.store, g.cfg.SaveSlot); err != nil {
			g.log.WithError(err).WithField("slot", g.cfg.SaveSlot).Error("Save failed")
			g.setMessage("Save failed: " + err.Error())
			return
		}
		g.setMessage(fmt.Sprintf("Saved to slot %d.", g.cfg.SaveSlot))

	case ActionDeleteSave:
		if err := g.store.Delete(g.cfg.SaveSlot); err != nil {
			g.log.WithError(err).WithField("slot", g.cfg.SaveSlot).Error("Delete failed")
			g.setMessage("Delete failed: " + err.Error())
			return
		}
		g.log.WithField("slot", g.cfg.SaveSlot).Info("Save slot cleared")
		g.setMessage(fmt.Sprintf("Cleared slot %d.", g.cfg.SaveSlot))
	}
}

func (g *Game) setMessage(msg string) {
	g.message = msg
	g.session.MarkDirty()
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
