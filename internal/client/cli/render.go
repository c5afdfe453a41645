package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/contactx/contactx/internal/client/models"
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func renderEmpty(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}

func renderCards(w io.Writer, cards []models.Card) {
	if len(cards) == 0 {
		renderEmpty(w, "No cards yet. Create one with 'card create'.")
		return
	}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{c.ID, c.DisplayName(), c.Title, c.Company, c.Email, c.Phone})
	}
	renderTable(w, []string{"ID", "NAME", "TITLE", "COMPANY", "EMAIL", "PHONE"}, rows)
}

func renderContacts(w io.Writer, contacts []models.Contact) {
	if len(contacts) == 0 {
		renderEmpty(w, "No contacts yet. Scan a card to add one.")
		return
	}
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		name, company := c.Name, c.Company
		if c.Card != nil {
			if name == "" {
				name = c.Card.DisplayName()
			}
			if company == "" {
				company = c.Card.Company
			}
		}
		rows = append(rows, []string{c.ID, name, company, c.LinkedCardID(), locationLabel(c.ScanLocation)})
	}
	renderTable(w, []string{"ID", "NAME", "COMPANY", "CARD", "SCANNED AT"}, rows)
}

func renderShares(w io.Writer, shares []models.Share) {
	if len(shares) == 0 {
		renderEmpty(w, "No pending shares.")
		return
	}
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		visitor := s.VisitorCardID
		if s.VisitorCard != nil {
			visitor = s.VisitorCard.DisplayName()
		}
		rows = append(rows, []string{s.ID, visitor, string(s.Status), locationLabel(s.ScanLocation)})
	}
	renderTable(w, []string{"ID", "VISITOR", "STATUS", "LOCATION"}, rows)
}

// renderCard prints one card as label/value lines.
func renderCard(w io.Writer, c models.Card) {
	fmt.Fprintln(w, titleStyle.Render(c.DisplayName()))
	fields := [][2]string{
		{"Title", c.Title},
		{"Company", c.Company},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Website", c.Website},
		{"Address", c.Address},
		{"Bio", c.Bio},
		{"Card ID", c.ID},
	}
	for _, f := range fields {
		if f[1] != "" {
			fmt.Fprintln(w, labelStyle.Render(f[0])+f[1])
		}
	}
	if len(c.Socials) > 0 {
		keys := make([]string, 0, len(c.Socials))
		for k := range c.Socials {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintln(w, labelStyle.Render(k)+c.Socials[k])
		}
	}
}

func locationLabel(l *models.Location) string {
	if l == nil {
		return ""
	}
	if l.FormattedAddress != nil {
		return *l.FormattedAddress
	}
	var parts []string
	for _, p := range []*string{l.City, l.Region, l.Country} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 && l.Latitude != nil && l.Longitude != nil {
		return fmt.Sprintf("%.5f, %.5f", *l.Latitude, *l.Longitude)
	}
	return strings.Join(parts, ", ")
}

// renderJSON pretty-prints raw JSON, or writes it as is when it is not JSON.
func renderJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}
	fmt.Fprintln(w, buf.String())
}
