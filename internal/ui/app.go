package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redraftapp/redraft/internal/analysis"
	"github.com/redraftapp/redraft/internal/clipboard"
	"github.com/redraftapp/redraft/internal/config"
	"github.com/redraftapp/redraft/internal/engine"
	"github.com/redraftapp/redraft/internal/monitor"
	"github.com/redraftapp/redraft/internal/provider"
	"github.com/redraftapp/redraft/internal/ratelimit"
)

// inputFieldID identifies the single monitored text field in the TUI.
const inputFieldID = "input"

const indicatorPollInterval = 250 * time.Millisecond

type Mode int

const (
	ModeGlobal Mode = iota
	ModeEdit
	ModeHelp
)

// trimTrailingWhitespace removes trailing whitespace from text
func trimTrailingWhitespace(text string) string {
	return strings.TrimRight(text, " \t\n\r")
}

type Model struct {
	mode Mode

	inputText  string
	check      *engine.GrammarCheck
	composed   string
	translated string
	showDiff   bool

	// Index into the correction spans of the current check, -1 when none
	// is selected.
	selected int

	inputEditor textarea.Model

	isLoading     bool
	isTranslating bool
	errText       string
	status        string

	indicatorVisible bool
	indicatorCount   int

	eng    *engine.Engine
	config *config.Config

	width  int
	height int
}

// Messages
type checkDoneMsg struct {
	check *engine.GrammarCheck
}

type translationDoneMsg struct {
	result *analysis.TranslationResult
}

type indicatorTickMsg struct{}

type errMsg struct {
	err error
}

func (e errMsg) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "unknown error"
}

// newProvider builds the chat backend named in the config.
func newProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return provider.NewOpenAIProvider(cfg.APIKey)
	case "anthropic":
		return provider.NewAnthropicProvider(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newRateLimiter creates a rate limiter from config, or returns nil if disabled
func newRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	maxRequests := cfg.RateLimitRequests
	if maxRequests <= 0 {
		maxRequests = 60
	}
	windowSeconds := cfg.RateLimitWindow
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return ratelimit.New(maxRequests, time.Duration(windowSeconds)*time.Second, 100*time.Millisecond)
}

// requestContext creates a context with the configured request timeout.
func requestContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeoutSeconds := cfg.RequestTimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
}

func NewModel(cfg *config.Config) (*Model, error) {
	p, err := newProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	analyzer, err := analysis.NewClient(p, cfg.Model,
		analysis.WithMode(cfg.Mode),
		analysis.WithLanguage(cfg.Language),
		analysis.WithRateLimiter(newRateLimiter(cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	monitorOpts := []monitor.Option{
		monitor.WithDebounce(debounce),
		monitor.WithMinLength(cfg.MinCheckChars),
	}
	if cfg.RequestTimeoutSeconds > 0 {
		monitorOpts = append(monitorOpts,
			monitor.WithRequestTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
	}

	eng := engine.New(analyzer, monitorOpts, engine.WithLogger(slog.Default()))

	inputEditor := textarea.New()
	inputEditor.Placeholder = "Type or paste text to check..."
	inputEditor.CharLimit = 0
	inputEditor.SetWidth(80)
	inputEditor.SetHeight(10)

	return &Model{
		mode:        ModeGlobal,
		selected:    -1,
		inputEditor: inputEditor,
		showDiff:    false,
		eng:         eng,
		config:      cfg,
		status:      "Ready. Press V to paste, E to edit, ? for help",
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, indicatorTick())
}

func indicatorTick() tea.Cmd {
	return tea.Tick(indicatorPollInterval, func(time.Time) tea.Msg {
		return indicatorTickMsg{}
	})
}

func (m Model) checkCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(m.config)
		defer cancel()
		check, err := m.eng.CheckGrammar(ctx, text)
		if err != nil {
			return errMsg{err}
		}
		return checkDoneMsg{check}
	}
}

func (m Model) translateCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(m.config)
		defer cancel()
		result, err := m.eng.Translate(ctx, text, m.config.TranslationLanguage)
		if err != nil {
			return errMsg{err}
		}
		return translationDoneMsg{result}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		editorWidth := msg.Width - 4
		if editorWidth < 20 {
			editorWidth = 20
		}
		editorHeight := (msg.Height - 8) / 2
		if editorHeight < 5 {
			editorHeight = 5
		}
		m.inputEditor.SetWidth(editorWidth)
		m.inputEditor.SetHeight(editorHeight)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "?" || msg.String() == "q" {
				m.mode = ModeGlobal
			}
			return m, nil
		case ModeEdit:
			return m.handleEditMode(msg)
		default:
			return m.handleGlobalMode(msg)
		}

	case indicatorTickMsg:
		m.indicatorVisible, m.indicatorCount = m.eng.Monitor().Indicator(inputFieldID)
		return m, indicatorTick()

	case checkDoneMsg:
		m.isLoading = false
		m.check = msg.check
		m.composed = msg.check.Set.Compose()
		m.errText = ""
		if msg.check.Set.Len() > 0 {
			m.selected = 0
			m.status = fmt.Sprintf("%d correction(s). ←/→ select, space toggles, C copies", msg.check.Set.Len())
		} else {
			m.selected = -1
			m.status = "No corrections needed"
		}
		if m.config.AutoCopy {
			if clipboard.WriteOutput(m.composed) {
				m.status += " · copied"
			}
		}
		return m, nil

	case translationDoneMsg:
		m.isTranslating = false
		m.translated = msg.result.Translation
		m.status = "Translated"
		if msg.result.Notes != "" {
			m.status = "Translated · " + msg.result.Notes
		}
		return m, nil

	case errMsg:
		m.isLoading = false
		m.isTranslating = false
		m.errText = msg.Error()
		m.status = "Failed to process, please retry"
		return m, nil
	}

	// Cursor blink and other component messages go to the focused editor.
	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.inputEditor, cmd = m.inputEditor.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = ModeGlobal
		m.inputEditor.Blur()
		m.inputText = trimTrailingWhitespace(m.inputEditor.Value())
		m.eng.Monitor().Blur(inputFieldID)
		m.status = "Press G to check, T to translate, ? for help"
		return m, nil
	}

	var cmd tea.Cmd
	m.inputEditor, cmd = m.inputEditor.Update(msg)
	m.eng.Monitor().Change(inputFieldID, m.inputEditor.Value())
	return m, cmd
}

func (m Model) handleGlobalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.mode = ModeHelp
		return m, nil

	case "e":
		m.mode = ModeEdit
		m.inputEditor.Focus()
		m.status = "Editing. Esc to finish"
		return m, nil

	case "v":
		text, err := clipboard.Paste()
		if err != nil {
			m.errText = fmt.Sprintf("paste failed: %v", err)
			return m, nil
		}
		text = trimTrailingWhitespace(text)
		if text == "" {
			m.status = "Clipboard is empty"
			return m, nil
		}
		m.inputText = text
		m.inputEditor.SetValue(text)
		m.check = nil
		m.composed = ""
		m.translated = ""
		m.selected = -1
		m.isLoading = true
		m.errText = ""
		m.status = "Checking..."
		return m, m.checkCmd(text)

	case "g":
		text := trimTrailingWhitespace(m.inputEditor.Value())
		if text == "" {
			m.status = "Nothing to check"
			return m, nil
		}
		m.inputText = text
		m.check = nil
		m.composed = ""
		m.selected = -1
		m.isLoading = true
		m.errText = ""
		m.status = "Checking..."
		return m, m.checkCmd(text)

	case "t":
		if m.config.TranslationLanguage == "" {
			m.status = "Set translation_language in config first"
			return m, nil
		}
		text := m.inputText
		if text == "" {
			text = trimTrailingWhitespace(m.inputEditor.Value())
		}
		if text == "" {
			m.status = "Nothing to translate"
			return m, nil
		}
		m.isTranslating = true
		m.errText = ""
		m.status = "Translating..."
		return m, m.translateCmd(text)

	case "left":
		m.moveSelection(-1)
		return m, nil

	case "right":
		m.moveSelection(1)
		return m, nil

	case " ", "enter":
		return m.toggleSelected()

	case "c":
		if m.composed == "" {
			m.status = "Nothing to copy"
			return m, nil
		}
		if clipboard.WriteOutput(m.composed) {
			m.status = "Copied to clipboard"
		} else {
			m.status = "Copy failed"
		}
		return m, nil

	case "d":
		m.showDiff = !m.showDiff
		return m, nil
	}

	return m, nil
}

// moveSelection moves the span selection by delta, clamped to the set.
func (m *Model) moveSelection(delta int) {
	if m.check == nil || m.check.Set.Len() == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 {
		next = 0
	}
	if next >= m.check.Set.Len() {
		next = m.check.Set.Len() - 1
	}
	m.selected = next
}

// toggleSelected flips the selected record, recomposes, and shows the
// record's explanation in the status line.
func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	if m.check == nil || m.selected < 0 {
		return m, nil
	}
	if !m.check.Set.Toggle(m.selected) {
		return m, nil
	}
	m.composed = m.check.Set.Compose()

	r, _ := m.check.Set.Record(m.selected)
	m.status = fmt.Sprintf("#%d %s", r.ID, r.State)
	if r.Explanation != "" {
		m.status += " · " + r.Explanation
	}
	if m.config.AutoCopy {
		if clipboard.WriteOutput(m.composed) {
			m.status += " · copied"
		}
	}
	return m, nil
}

// Run starts the TUI.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model, err := NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
