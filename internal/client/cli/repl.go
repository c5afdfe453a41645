package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/contactx/contactx/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the shell needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListCards(ctx context.Context) error
	CreateCard(ctx context.Context) error
	DeleteCard(ctx context.Context, id string) error
	Scan(ctx context.Context, cardID string, source models.ScanSource, loc *models.Location) error
	ListContacts(ctx context.Context) error
	SaveContact(ctx context.Context, cardID, notes string) error
	ListShares(ctx context.Context) error
	ApproveShare(ctx context.Context, id string) error
	RejectShare(ctx context.Context, id string) error
	Upload(ctx context.Context, path string, kind models.ImageKind) error
	Theme(ctx context.Context, mode string) error
	Stats(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, scan <cardId> [qr|link], theme [mode], stats, exit"
	helpSignedIn  = "Available commands: cards, card create, card delete <id>, scan <cardId> [qr|link], " +
		"contacts, save <cardId>, shares, approve <id>, reject <id>, upload <file> <logo|profile|cover>, " +
		"theme [mode], whoami, stats, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the ContactX shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and missing
// arguments are reported back to the user. The loop exits on scanner EOF,
// context cancellation, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report their
// own failures as toasts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("contactx %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "cards":
			_ = a.ListCards(ctx)

		case "card":
			switch {
			case len(args) >= 1 && args[0] == "create":
				_ = a.CreateCard(ctx)
			case len(args) >= 2 && args[0] == "delete":
				_ = a.DeleteCard(ctx, args[1])
			default:
				printlnFn("Usage: card create | card delete <id>")
			}

		case "scan":
			if len(args) == 0 {
				printlnFn("Usage: scan <cardId> [qr|link]")
				continue
			}
			source := models.ScanSourceQR
			if len(args) > 1 {
				s, err := models.ParseScanSource(args[1])
				if err != nil {
					printlnFn(err.Error())
					continue
				}
				source = s
			}
			_ = a.Scan(ctx, args[0], source, nil)

		case "contacts":
			_ = a.ListContacts(ctx)

		case "save":
			if len(args) == 0 {
				printlnFn("Usage: save <cardId> [notes...]")
				continue
			}
			_ = a.SaveContact(ctx, args[0], strings.Join(args[1:], " "))

		case "shares":
			_ = a.ListShares(ctx)

		case "approve", "reject":
			if len(args) == 0 {
				printlnFn("Usage: " + cmd + " <shareId>")
				continue
			}
			if cmd == "approve" {
				_ = a.ApproveShare(ctx, args[0])
			} else {
				_ = a.RejectShare(ctx, args[0])
			}

		case "upload":
			if len(args) < 2 {
				printlnFn("Usage: upload <file> <logo|profile|cover>")
				continue
			}
			kind, err := models.ParseImageKind(args[1])
			if err != nil {
				printlnFn(err.Error())
				continue
			}
			_ = a.Upload(ctx, args[0], kind)

		case "theme":
			mode := ""
			if len(args) > 0 {
				mode = args[0]
			}
			_ = a.Theme(ctx, mode)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
