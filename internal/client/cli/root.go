package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/contactx/contactx/internal/client/config"
	"github.com/contactx/contactx/internal/client/models"
)

// newAppFn is a test seam for NewApp.
var newAppFn = NewApp

type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewRootCommand builds the contactx command tree. Without a subcommand it
// starts the interactive shell. The returned func closes the App opened by
// the command; call it after Execute whether or not the command failed.
func NewRootCommand(streams IO) (*cobra.Command, func() error) {
	var (
		app     *App
		jsonOut bool
	)

	root := &cobra.Command{
		Use:   "contactx",
		Short: "ContactX digital business cards from the terminal",
		Long: `contactx manages your ContactX cards, contacts and visitor shares.

Run without a command to start the interactive shell.

Environment Variables:
  CONTACTX_API_URL   API base URL (default ` + "https://api.contactx.app/api" + `)
  CONTACTX_ENV       development or production
  CONTACTX_DATA_DIR  directory for the local database
  CONTACTX_TIMEOUT   request timeout, e.g. 30s`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			app, err = newAppFn(cmd.Context(), cfg, Options{In: streams.In, Out: streams.Out, Err: streams.Err, JSON: jsonOut})
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(streams.Out, titleStyle.Render("ContactX shell")+mutedStyle.Render(" (type 'help' for commands)"))
			ctx := cmd.Context()
			runREPL(ctx, app, func() string { return app.getStatus(ctx) }, bufio.NewScanner(app.reader))
			return nil
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON responses")

	appFn := func() *App { return app }
	root.AddCommand(
		authCommands(appFn)...,
	)
	root.AddCommand(
		cardCommands(appFn),
		cardsListCommand(appFn),
		scanCommand(appFn),
		contactsListCommand(appFn),
		contactCommands(appFn),
		sharesListCommand(appFn),
		shareCommands(appFn),
		uploadCommand(appFn),
		themeCommand(appFn),
		statsCommand(appFn),
		versionCommand(streams.Out),
	)
	closeApp := func() error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	}
	return root, closeApp
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, streams IO, args []string) error {
	root, closeApp := NewRootCommand(streams)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := closeApp(); cerr != nil {
		return errors.Join(err, fmt.Errorf("close: %w", cerr))
	}
	return err
}

func authCommands(app func() *App) []*cobra.Command {
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, _ := cmd.Flags().GetString("phone")
			if phone == "" {
				return app().Login(cmd.Context())
			}
			return app().login(cmd.Context(), phone)
		},
	}
	login.Flags().String("phone", "", "phone number in international format")

	return []*cobra.Command{
		login,
		{
			Use:   "logout",
			Short: "Sign out and forget the stored session",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return app().Logout(cmd.Context()) },
		},
		{
			Use:   "whoami",
			Short: "Show the signed-in profile",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return app().WhoAmI(cmd.Context()) },
		},
	}
}

func cardsListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List your cards",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return app().ListCards(cmd.Context()) },
	}
}

func cardCommands(app func() *App) *cobra.Command {
	card := &cobra.Command{Use: "card", Short: "Create or delete cards"}

	var c models.Card
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a card; prompts when no fields are given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !anyChanged(cmd, cardFields...) {
				return app().CreateCard(cmd.Context())
			}
			return app().createCard(cmd.Context(), c)
		},
	}
	f := create.Flags()
	f.StringVar(&c.Name, "name", "", "full name")
	f.StringVar(&c.Title, "title", "", "job title")
	f.StringVar(&c.Company, "company", "", "company")
	f.StringVar(&c.Email, "email", "", "email address")
	f.StringVar(&c.Phone, "phone", "", "phone number")
	f.StringVar(&c.Website, "website", "", "website")
	f.StringVar(&c.Bio, "bio", "", "short bio")
	f.StringVar(&c.Layout, "layout", "", "layout name")

	del := &cobra.Command{
		Use:   "delete <cardId>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return app().DeleteCard(cmd.Context(), args[0]) },
	}

	card.AddCommand(create, del)
	return card
}

var cardFields = []string{"name", "title", "company", "email", "phone", "website", "bio", "layout"}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func scanCommand(app func() *App) *cobra.Command {
	var (
		source string
		lat    float64
		lng    float64
		text   = map[string]*string{}
	)
	cmd := &cobra.Command{
		Use:   "scan <cardId>",
		Short: "Look up a card by the id from its QR code or link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := models.ParseScanSource(source)
			if err != nil {
				return err
			}
			loc := &models.Location{}
			flags := cmd.Flags()
			if flags.Changed("lat") {
				loc.Latitude = models.Float(lat)
			}
			if flags.Changed("lng") {
				loc.Longitude = models.Float(lng)
			}
			for name, dst := range map[string]**string{
				"city":              &loc.City,
				"country":           &loc.Country,
				"street":            &loc.Street,
				"district":          &loc.District,
				"region":            &loc.Region,
				"postal-code":       &loc.PostalCode,
				"address-name":      &loc.AddressName,
				"formatted-address": &loc.FormattedAddress,
			} {
				if flags.Changed(name) {
					*dst = models.String(*text[name])
				}
			}
			if loc.Empty() {
				loc = nil
			}
			return app().Scan(cmd.Context(), args[0], src, loc)
		},
	}
	f := cmd.Flags()
	f.StringVar(&source, "source", string(models.ScanSourceQR), "how the card was found: qr or link")
	f.Float64Var(&lat, "lat", 0, "latitude of the scan")
	f.Float64Var(&lng, "lng", 0, "longitude of the scan")
	for _, name := range []string{"city", "country", "street", "district", "region", "postal-code", "address-name", "formatted-address"} {
		text[name] = f.String(name, "", name+" of the scan")
	}
	return cmd
}

func contactsListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List saved contacts",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return app().ListContacts(cmd.Context()) },
	}
}

func contactCommands(app func() *App) *cobra.Command {
	contact := &cobra.Command{Use: "contact", Short: "Save or delete contacts"}

	var notes string
	save := &cobra.Command{
		Use:   "save <cardId>",
		Short: "Save a scanned card to your contacts",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return app().SaveContact(cmd.Context(), args[0], notes) },
	}
	save.Flags().StringVar(&notes, "notes", "", "private notes for this contact")

	del := &cobra.Command{
		Use:   "delete <contactId>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return app().DeleteContact(cmd.Context(), args[0]) },
	}

	contact.AddCommand(save, del)
	return contact
}

func sharesListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shares",
		Short: "List visitor shares waiting for your approval",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return app().ListShares(cmd.Context()) },
	}
}

func shareCommands(app func() *App) *cobra.Command {
	share := &cobra.Command{Use: "share", Short: "Send, approve or reject visitor shares"}

	var city string
	send := &cobra.Command{
		Use:   "send <ownerCardId> <yourCardId>",
		Short: "Offer your card to the owner of a scanned card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.ShareRequest{OwnerCardID: args[0], VisitorCardID: args[1]}
			if city != "" {
				req.ScanLocation = &models.Location{City: models.String(city)}
			}
			return app().ShareContact(cmd.Context(), req)
		},
	}
	send.Flags().StringVar(&city, "city", "", "where you met")

	share.AddCommand(
		send,
		&cobra.Command{
			Use:   "approve <shareId>",
			Short: "Approve a pending share",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return app().ApproveShare(cmd.Context(), args[0]) },
		},
		&cobra.Command{
			Use:   "reject <shareId>",
			Short: "Reject a pending share",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return app().RejectShare(cmd.Context(), args[0]) },
		},
	)
	return share
}

func uploadCommand(app func() *App) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a logo, profile or cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := models.ParseImageKind(kind)
			if err != nil {
				return err
			}
			return app().Upload(cmd.Context(), args[0], k)
		},
	}
	cmd.Flags().StringVar(&kind, "type", string(models.ImageKindProfile), "image type: logo, profile or cover")
	return cmd
}

func themeCommand(app func() *App) *cobra.Command {
	var (
		colors []string
		reset  bool
	)
	cmd := &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or change the theme and custom colors",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if reset {
				if err := app().ResetColors(ctx); err != nil {
					return err
				}
			}
			if len(colors) > 0 {
				if err := app().SetColors(ctx, colors); err != nil {
					return err
				}
			}
			mode := ""
			if len(args) == 1 {
				mode = args[0]
			}
			if mode == "" && (reset || len(colors) > 0) {
				return nil
			}
			return app().Theme(ctx, mode)
		},
	}
	cmd.Flags().StringSliceVar(&colors, "color", nil, "custom color override name=#RRGGBB (repeatable)")
	cmd.Flags().BoolVar(&reset, "reset-colors", false, "remove all custom colors")
	return cmd
}

func statsCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:    "stats",
		Short:  "Show request counters for this process",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   func(cmd *cobra.Command, _ []string) error { return app().Stats(cmd.Context()) },
	}
}

func versionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// No database needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return (&App{out: out}).Version(cmd.Context())
		},
	}
}
