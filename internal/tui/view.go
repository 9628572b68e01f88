package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	switch m.screen {
	case screenDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("KnowBargain"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.theme.Dim.Render("fetching deals..."))
		b.WriteString("\n")
	} else if len(m.views) == 0 {
		if m.activeTab == tabSaved {
			b.WriteString(m.theme.Dim.Render("no saved deals yet"))
		} else {
			b.WriteString(m.theme.Dim.Render("no deals match the current filter"))
		}
		b.WriteString("\n")
	}

	visible := m.visibleRows()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.views))

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.views[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderTabs() string {
	feedLabel := "Feed"
	savedLabel := "Saved"
	filter := fmt.Sprintf("  [%s / %s]", m.category, m.sortKey)
	switch m.activeTab {
	case tabSaved:
		return m.theme.TabIdle.Render(feedLabel) + "  " + m.theme.TabActive.Render(savedLabel) + m.theme.Dim.Render(filter)
	default:
		return m.theme.TabActive.Render(feedLabel) + "  " + m.theme.TabIdle.Render(savedLabel) + m.theme.Dim.Render(filter)
	}
}

func (m Model) renderRow(view domain.DealView, selected bool) string {
	cursor := "  "
	if selected {
		cursor = m.theme.Cursor.Render("> ")
	}

	score := m.renderScore(view.Engagement)
	saved := "  "
	if view.Engagement.Saved {
		saved = m.theme.Saved.Render("★ ")
	}

	title := view.Title
	if maxTitle := m.width - 46; maxTitle > 10 && len(title) > maxTitle {
		title = title[:maxTitle-1] + "…"
	}

	line := fmt.Sprintf("%s%s%s %s %s %s %s",
		cursor,
		saved,
		score,
		m.theme.DealTitle.Render(title),
		m.renderPrice(view.Deal),
		m.theme.Category.Render(view.Category),
		m.theme.Dim.Render(fmt.Sprintf("%d comments", view.CommentCount)),
	)
	if view.Status != domain.StatusActive {
		line += " " + m.theme.StatusBad.Render(statusLabel(view.Status))
	}
	return line
}

// renderScore shows the displayed score with the user's vote direction,
// dimmed while a vote is still in flight.
func (m Model) renderScore(e domain.Engagement) string {
	text := fmt.Sprintf("%4d", e.DisplayedScore)
	switch e.Direction {
	case domain.VoteUp:
		text = "▲" + text
	case domain.VoteDown:
		text = "▼" + text
	default:
		text = " " + text
	}
	if e.Phase == domain.PhasePending {
		return m.theme.Pending.Render(text)
	}
	switch e.Direction {
	case domain.VoteUp:
		return m.theme.ScoreUp.Render(text)
	case domain.VoteDown:
		return m.theme.ScoreDown.Render(text)
	}
	return m.theme.ScoreIdle.Render(text)
}

func (m Model) renderPrice(deal domain.Deal) string {
	price := m.theme.Price.Render(fmt.Sprintf("$%.2f", deal.Price))
	if deal.OriginalPrice > deal.Price {
		price += " " + m.theme.OldPrice.Render(fmt.Sprintf("$%.2f", deal.OriginalPrice))
		price += " " + m.theme.Discount.Render(fmt.Sprintf("-%d%%", discountPct(deal)))
	}
	return price
}

func (m Model) renderDetail() string {
	var b strings.Builder
	deal := m.detailDeal

	b.WriteString(m.theme.Title.Render(deal.Title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		m.renderPrice(deal),
		m.theme.Category.Render(deal.Category),
		m.theme.Dim.Render("by "+deal.Owner),
	))
	if deal.Status != domain.StatusActive {
		b.WriteString(m.theme.StatusBad.Render(statusLabel(deal.Status)))
		b.WriteString("\n")
	}

	if engagement, ok := m.deps.Store.Get(deal.ID); ok {
		b.WriteString(m.renderScore(engagement))
		if engagement.Saved {
			b.WriteString("  " + m.theme.Saved.Render("★ saved"))
		}
		b.WriteString("\n")
	}

	history := m.deps.Prices.History(deal.ID)
	if len(history) > 1 {
		width := min(60, max(10, m.width-20))
		b.WriteString("\n")
		b.WriteString(m.theme.Spark.Render(Sparkline(history, width)))
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  %d price points", len(history))))
		b.WriteString("\n")
	}

	if deal.Description != "" {
		b.WriteString("\n")
		b.WriteString(deal.Description)
		b.WriteString("\n")
	}

	comments := m.deps.Comments.Thread(deal.ID)
	b.WriteString("\n")
	b.WriteString(m.theme.DealTitle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.theme.Dim.Render("loading thread..."))
		b.WriteString("\n")
	}
	limit := min(len(comments), max(3, m.visibleRows()-8))
	for _, c := range comments[:limit] {
		b.WriteString(fmt.Sprintf("%s %s\n  %s\n",
			m.theme.Author.Render(c.Author),
			m.theme.Dim.Render(relTime(c.CreatedAt)),
			c.Content,
		))
	}

	if m.composing {
		b.WriteString("\n")
		b.WriteString(m.compose.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.toast != "" {
		if m.toastBad {
			return m.theme.ToastError.Render(m.toast)
		}
		return m.theme.Toast.Render(m.toast)
	}
	switch m.screen {
	case screenDetail:
		return m.theme.StatusBar.Render("u/d vote · b save · n comment · p simulate · r refresh · esc back · q quit")
	default:
		return m.theme.StatusBar.Render("↑/↓ move · enter open · tab feed/saved · c category · s sort · u/d vote · b save · r refresh · q quit")
	}
}

// visibleRows is how many list rows fit between the header and status bar.
func (m Model) visibleRows() int {
	return max(5, m.height-6)
}

func statusLabel(s domain.DealStatus) string {
	switch s {
	case domain.StatusExpired:
		return "EXPIRED"
	case domain.StatusOutOfStock:
		return "OUT OF STOCK"
	case domain.StatusPriceMistake:
		return "PRICE MISTAKE"
	default:
		return strings.ToUpper(string(s))
	}
}

func discountPct(deal domain.Deal) int {
	if deal.OriginalPrice <= 0 {
		return 0
	}
	return int((1 - deal.Price/deal.OriginalPrice) * 100)
}

// relTime renders a timestamp as a coarse relative age.
func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
