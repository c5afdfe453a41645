package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/contactx/contactx/internal/buildinfo"
	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/metrics"
	"github.com/contactx/contactx/internal/client/models"
	"github.com/contactx/contactx/internal/client/resilience"
	"github.com/contactx/contactx/internal/client/services"
	"github.com/contactx/contactx/internal/client/session"
)

var emptyList = []byte(`{"success":true,"data":[]}`)

// orEmpty turns "nothing here yet" errors into an empty list so that list
// screens show an empty state instead of an alert.
func orEmpty(fn func(context.Context) (*models.Envelope, error)) func(context.Context) (*models.Envelope, error) {
	return func(ctx context.Context) (*models.Envelope, error) {
		env, err := fn(ctx)
		if err != nil && client.IsEmptyState(err) {
			return models.NewEnvelope(http.StatusOK, emptyList), nil
		}
		return env, err
	}
}

func (a *App) call(ctx context.Context, fn func(context.Context) (*models.Envelope, error), msg string) (*models.Envelope, error) {
	env, ok := resilience.SafeAsync(ctx, a.guard, fn, msg)
	if !ok {
		return nil, ErrReported
	}
	return env, nil
}

func (a *App) fetchList(ctx context.Context, fn func(context.Context) (*models.Envelope, error), msg string) (*models.Envelope, error) {
	env, ok := resilience.WithRetry(ctx, a.guard, orEmpty(fn), resilience.DefaultMaxRetries, a.retryDelay, msg)
	if !ok {
		return nil, ErrReported
	}
	return env, nil
}

func (a *App) requireLogin(ctx context.Context) error {
	if a.isLoggedIn(ctx) {
		return nil
	}
	a.notify(ctx, resilience.LevelInfo, "Please sign in first with 'login'")
	return ErrReported
}

// ---- auth ----

// Login asks for the phone number, then the code sent to it.
func (a *App) Login(ctx context.Context) error {
	phone, err := GetSimpleText(a.reader, "Phone number (e.g. +15551234567)", a.out)
	if err != nil {
		return err
	}
	return a.login(ctx, phone)
}

func (a *App) login(ctx context.Context, phone string) error {
	if _, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.auth.SendOTP(ctx, phone)
	}, ""); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelInfo, "Code sent to "+phone)

	code, err := a.readSecret("Verification code")
	if err != nil {
		return err
	}

	_, ok := resilience.SafeAsync(ctx, a.guard, func(ctx context.Context) (*models.Session, error) {
		return a.auth.VerifyOTP(ctx, phone, code, services.VerifyOptions{})
	}, "")
	if !ok {
		return ErrReported
	}
	a.notify(ctx, resilience.LevelSuccess, "Signed in")
	return nil
}

func (a *App) readSecret(prompt string) (string, error) {
	if a.interactive {
		return GetSecret(prompt, a.out)
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		a.notify(ctx, resilience.LevelInfo, "Not signed in")
		return nil
	}
	if _, ok := resilience.SafeAsync(ctx, a.guard, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.auth.SignOut(ctx)
	}, "Could not sign out"); !ok {
		return ErrReported
	}
	a.notify(ctx, resilience.LevelSuccess, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	if session.TokenExpired(s.Token, a.now()) {
		a.notify(ctx, resilience.LevelInfo, "Your stored session has expired, please sign in again")
	}

	env, err := a.call(ctx, a.auth.Profile, "Could not load your profile")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}

	u, err := env.User()
	if err != nil {
		renderJSON(a.out, env.Data())
		return nil
	}
	for _, f := range [][2]string{{"ID", u.ID}, {"Name", u.Name}, {"Phone", u.PhoneNumber}, {"Email", u.Email}} {
		if f[1] != "" {
			fmt.Fprintln(a.out, labelStyle.Render(f[0])+f[1])
		}
	}
	if exp, ok, err := session.TokenExpiry(s.Token); err == nil && ok {
		fmt.Fprintln(a.out, labelStyle.Render("Session until")+exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// ---- cards ----

func (a *App) ListCards(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	env, err := a.fetchList(ctx, a.api.GetCards, "Could not load your cards")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	cards, err := env.Cards()
	if err != nil {
		return err
	}
	renderCards(a.out, a.withLastCreated(ctx, cards))
	return nil
}

// withLastCreated prepends a card created moments ago that the list
// endpoint does not return yet.
func (a *App) withLastCreated(ctx context.Context, cards []models.Card) []models.Card {
	last, err := a.api.LastCreatedCard(ctx)
	if err != nil || last == nil || last.ID == "" {
		return cards
	}
	for _, c := range cards {
		if c.ID == last.ID {
			return cards
		}
	}
	return append([]models.Card{*last}, cards...)
}

// CreateCard prompts for the card fields.
func (a *App) CreateCard(ctx context.Context) error {
	card, err := a.promptCard()
	if err != nil {
		return err
	}
	return a.createCard(ctx, card)
}

func (a *App) promptCard() (models.Card, error) {
	var c models.Card
	name, err := GetSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return c, err
	}
	c.Name = name
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Job title", &c.Title},
		{"Company", &c.Company},
		{"Email", &c.Email},
		{"Phone", &c.Phone},
		{"Website", &c.Website},
	} {
		v, err := GetOptionalText(a.reader, f.prompt, a.out)
		if err != nil {
			return c, err
		}
		*f.dst = v
	}
	return c, nil
}

func (a *App) createCard(ctx context.Context, card models.Card) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if card.Name == "" && card.Company == "" {
		a.notify(ctx, resilience.LevelError, "A card needs a name or a company")
		return ErrReported
	}
	env, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.api.CreateCard(ctx, card)
	}, "Could not create the card")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	msg := "Card created"
	if created, err := env.Card(); err == nil && created.ID != "" {
		msg += " (" + created.ID + ")"
	}
	a.notify(ctx, resilience.LevelSuccess, msg)
	return nil
}

func (a *App) DeleteCard(ctx context.Context, id string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if _, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.api.DeleteCard(ctx, id)
	}, ""); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelSuccess, "Card deleted")
	return nil
}

// Scan looks up a scanned card. Scanning works without signing in.
func (a *App) Scan(ctx context.Context, cardID string, source models.ScanSource, loc *models.Location) error {
	env, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.api.ScanCard(ctx, cardID, source, loc)
	}, "")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	card, err := env.Card()
	if err != nil {
		a.notify(ctx, resilience.LevelInfo, "No card found for "+cardID)
		return nil
	}
	renderCard(a.out, card)
	if a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, mutedStyle.Render("Save it with: contact save "+cardID))
	}
	return nil
}

// ---- contacts ----

func (a *App) ListContacts(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	env, err := a.fetchList(ctx, a.api.GetContacts, "Could not load your contacts")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	contacts, err := env.Contacts()
	if err != nil {
		return err
	}
	renderContacts(a.out, contacts)
	return nil
}

func (a *App) SaveContact(ctx context.Context, cardID string, notes string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	var body map[string]any
	if notes != "" {
		body = map[string]any{"notes": notes}
	}
	env, err := a.api.SaveContactOnce(ctx, cardID, body)
	switch {
	case errors.Is(err, services.ErrContactExists):
		a.notify(ctx, resilience.LevelInfo, "Already in your contacts")
		return nil
	case err != nil:
		a.guard.Logger.Error(ctx, "save contact", "card", cardID, "error", err)
		a.notify(ctx, resilience.LevelError, client.UserMessage(err))
		return ErrReported
	}
	msg := "Contact saved"
	if saved, err := env.Contact(); err == nil && saved.ID != "" {
		msg += " (" + saved.ID + ")"
	}
	a.notify(ctx, resilience.LevelSuccess, msg)
	return nil
}

func (a *App) DeleteContact(ctx context.Context, id string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if _, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.api.DeleteContact(ctx, id)
	}, ""); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelSuccess, "Contact deleted")
	return nil
}

// ---- visitor shares ----

func (a *App) ListShares(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	env, err := a.fetchList(ctx, a.api.PendingShares, "Could not load pending shares")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	shares, err := env.Shares()
	if err != nil {
		return err
	}
	renderShares(a.out, shares)
	return nil
}

func (a *App) ShareContact(ctx context.Context, req models.ShareRequest) error {
	if _, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.api.ShareVisitorContact(ctx, req)
	}, ""); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelSuccess, "Your card was shared and is waiting for approval")
	return nil
}

func (a *App) ApproveShare(ctx context.Context, id string) error {
	return a.decideShare(ctx, id, a.api.ApproveShare, "Share approved")
}

func (a *App) RejectShare(ctx context.Context, id string) error {
	return a.decideShare(ctx, id, a.api.RejectShare, "Share rejected")
}

func (a *App) decideShare(ctx context.Context, id string, fn func(context.Context, string) (*models.Envelope, error), done string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if _, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return fn(ctx, id)
	}, ""); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelSuccess, done)
	return nil
}

// ---- images ----

func (a *App) Upload(ctx context.Context, path string, kind models.ImageKind) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	env, err := a.call(ctx, func(ctx context.Context) (*models.Envelope, error) {
		return a.upload.UploadFile(ctx, path, kind)
	}, "")
	if err != nil {
		return err
	}
	if a.jsonOut {
		renderJSON(a.out, env.Raw())
		return nil
	}
	a.notify(ctx, resilience.LevelSuccess, fmt.Sprintf("Uploaded %s image", kind))
	return nil
}

// ---- preferences ----

// Theme prints the stored theme, or stores mode when given.
func (a *App) Theme(ctx context.Context, mode string) error {
	if mode != "" {
		if _, ok := resilience.SafeSync(a.guard, func() (struct{}, error) {
			return struct{}{}, a.prefs.SetThemeMode(ctx, session.ThemeMode(mode))
		}, "Theme must be light, dark or system"); !ok {
			return ErrReported
		}
		a.notify(ctx, resilience.LevelSuccess, "Theme set to "+mode)
		return nil
	}

	current, err := a.prefs.ThemeMode(ctx)
	if err != nil {
		return err
	}
	colors, err := a.prefs.CustomColors(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, labelStyle.Render("Theme")+string(current))
	keys := make([]string, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(a.out, labelStyle.Render(k)+colors[k])
	}
	return nil
}

// SetColors merges name=#hex overrides into the stored palette.
func (a *App) SetColors(ctx context.Context, pairs []string) error {
	colors, err := a.prefs.CustomColors(ctx)
	if err != nil {
		return err
	}
	if colors == nil {
		colors = map[string]string{}
	}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			a.notify(ctx, resilience.LevelError, "Colors must look like name=#RRGGBB")
			return ErrReported
		}
		colors[name] = value
	}
	if _, ok := resilience.SafeSync(a.guard, func() (struct{}, error) {
		return struct{}{}, a.prefs.SetCustomColors(ctx, colors)
	}, "Colors must be hex values like #1A2B3C"); !ok {
		return ErrReported
	}
	a.notify(ctx, resilience.LevelSuccess, "Colors updated")
	return nil
}

func (a *App) ResetColors(ctx context.Context) error {
	if err := a.prefs.ResetCustomColors(ctx); err != nil {
		return err
	}
	a.notify(ctx, resilience.LevelSuccess, "Colors reset")
	return nil
}

// ---- diagnostics ----

// Stats prints the request counters collected in this process.
func (a *App) Stats(_ context.Context) error {
	snap, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	if len(snap) == 0 {
		renderEmpty(a.out, "No requests made yet.")
		return nil
	}
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		method, outcome, _ := strings.Cut(k, "/")
		rows = append(rows, []string{method, outcome, fmt.Sprintf("%.0f", snap[k])})
	}
	renderTable(a.out, []string{"METHOD", "OUTCOME", "COUNT"}, rows)
	return nil
}

func (a *App) Version(_ context.Context) error {
	buildinfo.PrintBuildData(a.out)
	return nil
}
