// Package tui implements the interactive deal browser built on bubbletea.
package tui

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/engage"
	"github.com/knowbargain/kbargain/internal/feed"
	"github.com/knowbargain/kbargain/internal/price"
	"github.com/knowbargain/kbargain/internal/thread"
)

// screen identifies which full-screen view is active.
type screen int

const (
	screenList screen = iota
	screenDetail
)

// tab identifies which deal list the list screen shows.
type tab int

const (
	tabFeed tab = iota
	tabSaved
)

// toastFadeDelay is how long a transient notice stays visible.
const toastFadeDelay = 3 * time.Second

// Deps carries the services the browse interface renders and drives.
type Deps struct {
	Loader   *feed.Loader
	Store    *engage.Store
	Comments *thread.Synchronizer
	Prices   *price.Tracker
	Logger   *slog.Logger

	// Initial feed settings; both fall back to defaults when empty.
	Category string
	Sort     feed.SortKey
}

// feedLoadedMsg carries the result of an asynchronous feed load.
type feedLoadedMsg struct {
	deals []domain.Deal
	err   error
}

// savedLoadedMsg carries the result of an asynchronous saved-deals load.
type savedLoadedMsg struct {
	deals []domain.Deal
	err   error
}

// detailLoadedMsg carries the result of loading a single deal with its
// comment thread and price history.
type detailLoadedMsg struct {
	deal domain.Deal
	err  error
}

// engagementMsg is delivered whenever the engagement store reports a
// change, so the list re-renders optimistic state immediately.
type engagementMsg struct {
	dealID int64
}

type voteDoneMsg struct {
	dealID int64
	err    error
}

type saveDoneMsg struct {
	dealID int64
	err    error
}

type commentPostedMsg struct {
	dealID int64
	err    error
}

type priceSimulatedMsg struct {
	dealID int64
	tick   domain.PriceTick
	err    error
}

// toastFadeMsg clears the transient notice from the status bar.
type toastFadeMsg struct{}

// Model is the bubbletea model for browse mode.
type Model struct {
	deps  Deps
	keys  KeyMap
	theme Theme

	width  int
	height int
	ready  bool

	screen    screen
	activeTab tab
	loading   bool

	// feedDeals and savedDeals hold the raw server order; views is the
	// composed render sequence for the active tab.
	feedDeals  []domain.Deal
	savedDeals []domain.Deal
	views      []domain.DealView
	cursor     int

	category string
	sortKey  feed.SortKey

	detailID   int64
	detailDeal domain.Deal

	compose   textinput.Model
	composing bool
	// pendingComment holds the submitted text until the server confirms
	// the post, so a failure can hand it back instead of losing it.
	pendingComment string

	toast    string
	toastBad bool

	engageEvents chan int64
}

// NewModel creates a Model wired to the given services. The engagement
// store's change callback is hooked up here so optimistic updates reach
// the message loop without polling.
func NewModel(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "write a comment"
	input.CharLimit = 500

	events := make(chan int64, 16)
	deps.Store.OnChange(func(dealID int64) {
		select {
		case events <- dealID:
		default:
		}
	})

	category := deps.Category
	if category == "" {
		category = feed.CategoryAll
	}
	sortKey := deps.Sort
	if sortKey == "" {
		sortKey = feed.SortNewest
	}

	return Model{
		deps:         deps,
		keys:         DefaultKeyMap,
		theme:        DefaultTheme,
		loading:      true,
		category:     category,
		sortKey:      sortKey,
		compose:      input,
		engageEvents: events,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadFeed(), listenForEngagement(m.engageEvents))
}

// listenForEngagement returns a tea.Cmd that blocks until the engagement
// store reports a change, then delivers it as an engagementMsg.
func listenForEngagement(events <-chan int64) tea.Cmd {
	return func() tea.Msg {
		dealID, ok := <-events
		if !ok {
			return nil
		}
		return engagementMsg{dealID: dealID}
	}
}

func (m Model) loadFeed() tea.Cmd {
	loader := m.deps.Loader
	return func() tea.Msg {
		deals, err := loader.LoadFeed(context.Background())
		return feedLoadedMsg{deals: deals, err: err}
	}
}

func (m Model) loadSaved() tea.Cmd {
	loader := m.deps.Loader
	return func() tea.Msg {
		deals, err := loader.LoadSaved(context.Background())
		return savedLoadedMsg{deals: deals, err: err}
	}
}

func (m Model) loadDetail(dealID int64) tea.Cmd {
	loader := m.deps.Loader
	return func() tea.Msg {
		deal, err := loader.LoadDetail(context.Background(), dealID)
		return detailLoadedMsg{deal: deal, err: err}
	}
}

func (m Model) vote(dealID int64, dir domain.VoteDirection) tea.Cmd {
	store := m.deps.Store
	return func() tea.Msg {
		err := store.Vote(context.Background(), dealID, dir)
		return voteDoneMsg{dealID: dealID, err: err}
	}
}

func (m Model) toggleSave(dealID int64) tea.Cmd {
	store := m.deps.Store
	return func() tea.Msg {
		err := store.Save(context.Background(), dealID)
		return saveDoneMsg{dealID: dealID, err: err}
	}
}

func (m Model) postComment(dealID int64, content string) tea.Cmd {
	comments := m.deps.Comments
	return func() tea.Msg {
		err := comments.Post(context.Background(), dealID, content)
		return commentPostedMsg{dealID: dealID, err: err}
	}
}

func (m Model) simulatePrice(dealID int64) tea.Cmd {
	prices := m.deps.Prices
	return func() tea.Msg {
		tick, err := prices.Simulate(context.Background(), dealID)
		return priceSimulatedMsg{dealID: dealID, tick: tick, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.compose.Width = max(20, msg.Width-10)
		return m, nil

	case engagementMsg:
		m.recompose()
		return m, listenForEngagement(m.engageEvents)

	case feedLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		m.feedDeals = msg.deals
		m.recompose()
		return m, nil

	case savedLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		m.savedDeals = msg.deals
		m.recompose()
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.screen = screenList
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		m.detailDeal = msg.deal
		m.recompose()
		return m, nil

	case voteDoneMsg:
		m.recompose()
		if msg.err != nil {
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		return m, nil

	case saveDoneMsg:
		m.recompose()
		if msg.err != nil {
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		// The saved tab is stale after a successful toggle.
		if m.activeTab == tabSaved {
			return m, m.loadSaved()
		}
		return m, nil

	case commentPostedMsg:
		if msg.err != nil {
			toast := m.setToast(domain.UserMessage(msg.err), true)
			// Hand the typed text back so the user can retry or edit.
			if m.screen == screenDetail && m.detailID == msg.dealID {
				m.composing = true
				m.compose.SetValue(m.pendingComment)
				return m, tea.Batch(m.compose.Focus(), toast)
			}
			return m, toast
		}
		m.pendingComment = ""
		m.compose.Reset()
		return m, m.setToast("comment posted", false)

	case priceSimulatedMsg:
		if msg.err != nil {
			return m, m.setToast(domain.UserMessage(msg.err), true)
		}
		if m.screen == screenDetail && m.detailID == msg.dealID {
			m.detailDeal.Price = msg.tick.NewPrice
		}
		return m, m.setToast("price updated", false)

	case toastFadeMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.handleComposeKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.screen {
	case screenList:
		return m.handleListKeys(msg)
	case screenDetail:
		return m.handleDetailKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.views)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if view, ok := m.selected(); ok {
			m.screen = screenDetail
			m.detailID = view.ID
			m.detailDeal = view.Deal
			m.loading = true
			return m, m.loadDetail(view.ID)
		}

	case key.Matches(msg, m.keys.Tab):
		if m.activeTab == tabFeed {
			m.activeTab = tabSaved
			m.cursor = 0
			m.loading = true
			return m, m.loadSaved()
		}
		m.activeTab = tabFeed
		m.cursor = 0
		m.recompose()

	case key.Matches(msg, m.keys.Category):
		m.category = nextCategory(m.categories(), m.category)
		m.cursor = 0
		m.recompose()

	case key.Matches(msg, m.keys.Sort):
		m.sortKey = nextSortKey(m.sortKey)
		m.recompose()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		if m.activeTab == tabSaved {
			return m, m.loadSaved()
		}
		return m, m.loadFeed()

	case key.Matches(msg, m.keys.VoteUp):
		if view, ok := m.selected(); ok {
			return m, m.vote(view.ID, domain.VoteUp)
		}

	case key.Matches(msg, m.keys.VoteDown):
		if view, ok := m.selected(); ok {
			return m, m.vote(view.ID, domain.VoteDown)
		}

	case key.Matches(msg, m.keys.Save):
		if view, ok := m.selected(); ok {
			return m, m.toggleSave(view.ID)
		}
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenList
		return m, nil

	case key.Matches(msg, m.keys.VoteUp):
		return m, m.vote(m.detailID, domain.VoteUp)

	case key.Matches(msg, m.keys.VoteDown):
		return m, m.vote(m.detailID, domain.VoteDown)

	case key.Matches(msg, m.keys.Save):
		return m, m.toggleSave(m.detailID)

	case key.Matches(msg, m.keys.Comment):
		m.composing = true
		m.compose.Reset()
		return m, m.compose.Focus()

	case key.Matches(msg, m.keys.Simulate):
		return m, m.simulatePrice(m.detailID)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadDetail(m.detailID)
	}
	return m, nil
}

func (m Model) handleComposeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.compose.Blur()
		return m, nil

	case "enter":
		// The input keeps its text until the server confirms the post;
		// only the success branch of commentPostedMsg clears it.
		m.pendingComment = m.compose.Value()
		m.composing = false
		m.compose.Blur()
		return m, m.postComment(m.detailID, m.pendingComment)
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return m, cmd
}

// selected returns the deal under the list cursor.
func (m Model) selected() (domain.DealView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.views) {
		return domain.DealView{}, false
	}
	return m.views[m.cursor], true
}

// recompose rebuilds the render sequence for the active tab from the raw
// deals and the current engagement snapshot, then clamps the cursor.
func (m *Model) recompose() {
	snapshot := m.deps.Store.Snapshot()
	switch m.activeTab {
	case tabFeed:
		m.views = feed.Compose(m.feedDeals, snapshot, m.category, m.sortKey)
	case tabSaved:
		m.views = feed.Compose(m.savedDeals, snapshot, feed.CategoryAll, m.sortKey)
	}
	if m.cursor >= len(m.views) {
		m.cursor = len(m.views) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// categories returns the cycling order for the category filter: "all"
// followed by every distinct category seen in the feed, sorted.
func (m Model) categories() []string {
	seen := make(map[string]bool)
	for _, d := range m.feedDeals {
		if d.Category != "" {
			seen[d.Category] = true
		}
	}
	out := make([]string, 0, len(seen)+1)
	out = append(out, feed.CategoryAll)
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out[1:])
	return out
}

func nextCategory(categories []string, current string) string {
	for i, c := range categories {
		if c == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return feed.CategoryAll
}

var sortCycle = []feed.SortKey{
	feed.SortNewest,
	feed.SortTop,
	feed.SortPriceAsc,
	feed.SortPriceDesc,
	feed.SortDiscussed,
}

func nextSortKey(current feed.SortKey) feed.SortKey {
	for i, k := range sortCycle {
		if k == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return feed.SortNewest
}

// setToast shows a transient status-bar notice and schedules its removal.
func (m *Model) setToast(text string, bad bool) tea.Cmd {
	m.toast = text
	m.toastBad = bad
	return tea.Tick(toastFadeDelay, func(time.Time) tea.Msg {
		return toastFadeMsg{}
	})
}
