// Package ui provides the terminal front end of the game.
package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/session"
)

const (
	robotName    = "RoboMi"
	defaultWidth = 80
)

// NewProgram returns a new Tea program playing sess.
func NewProgram(cfg Config, sess *session.Session) *tea.Program {
	log.Debug("Starting minik", "session", sess.ID(), "inline", cfg.InlineMode)

	sched := newProgramScheduler()
	var opts []tea.ProgramOption
	if !cfg.InlineMode {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(newModel(cfg, sess, sched), opts...)
	sched.bind(p.Send)
	sess.Narrator().OnSpeakingChanged(func(speaking bool) {
		sched.notify(speakingMsg(speaking))
	})
	return p
}

type speakingMsg bool

// Common stuff we'll need to access in all screens.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common *commonModel
	sess   *session.Session
	sched  minigame.Scheduler

	charCursor   int
	planetCursor int
	notice       string

	host  *minigame.Host
	board *boardModel

	spinner  spinner.Model
	speaking bool
	paused   bool
	fatalErr error
}

func newModel(cfg Config, sess *session.Session, sched minigame.Scheduler) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle
	return model{
		common:  &commonModel{cfg: cfg, width: defaultWidth},
		sess:    sess,
		sched:   sched,
		board:   &boardModel{},
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.closeHost()
			return m, tea.Quit
		case "ctrl+z":
			return m, tea.Suspend
		case "p":
			m.togglePause()
			return m, nil
		}

		switch m.sess.Store().Screen() {
		case progress.ScreenCharacterSelect:
			m.updateCharacterSelect(msg.String())
		case progress.ScreenMap:
			m.updateMap(msg.String())
		case progress.ScreenMiniGame:
			m.updateGame(msg.String())
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case runMsg:
		msg.fn()

	case speakingMsg:
		m.speaking = bool(msg)
		if !m.speaking {
			m.paused = false
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.syncHost()
	return m, tea.Batch(cmds...)
}

// syncHost keeps the game host in step with the store's current planet.
func (m *model) syncHost() {
	id, ok := m.sess.Store().CurrentPlanet()
	switch {
	case !ok && m.host != nil:
		m.closeHost()
	case ok && (m.host == nil || m.host.Planet() != id):
		m.closeHost()
		h, err := m.sess.NewHost(m.sched)
		if err != nil {
			log.Error("Unable to open planet", "planet", id, "err", err)
			m.fatalErr = err
			return
		}
		m.host = h
		m.board.reset(nil)
	}
}

func (m *model) closeHost() {
	if m.host != nil {
		m.host.Close()
		m.host = nil
	}
}

func (m *model) togglePause() {
	n := m.sess.Narrator()
	switch {
	case m.paused:
		n.Resume()
		m.paused = false
	case m.speaking:
		n.Pause()
		m.paused = true
	}
}

func (m *model) updateCharacterSelect(key string) {
	chars := progress.Characters()
	switch key {
	case "up", "k":
		m.charCursor = (m.charCursor + len(chars) - 1) % len(chars)
	case "down", "j":
		m.charCursor = (m.charCursor + 1) % len(chars)
	case "enter", " ":
		m.selectCharacter(chars[m.charCursor].ID)
	default:
		if i, ok := digit(key); ok && i < len(chars) {
			m.charCursor = i
			m.selectCharacter(chars[i].ID)
		}
	}
}

func (m *model) selectCharacter(id progress.CharacterID) {
	if _, err := m.sess.SelectCharacter(id); err != nil {
		log.Warn("Character not selected", "id", id, "err", err)
	}
}

func (m *model) updateMap(key string) {
	planets := progress.PlanetOrder()
	switch key {
	case "up", "k", "left", "h":
		m.planetCursor = (m.planetCursor + len(planets) - 1) % len(planets)
		m.notice = ""
	case "down", "j", "right", "l":
		m.planetCursor = (m.planetCursor + 1) % len(planets)
		m.notice = ""
	case "enter", " ":
		m.openPlanet(planets[m.planetCursor])
	default:
		if i, ok := digit(key); ok && i < len(planets) {
			m.planetCursor = i
			m.openPlanet(planets[i])
		}
	}
}

func (m *model) openPlanet(id progress.PlanetID) {
	err := m.sess.OpenPlanet(id)
	switch {
	case errors.Is(err, progress.ErrPlanetLocked):
		m.notice = content.LockedPlanet
	case err != nil:
		log.Error("Unable to open planet", "planet", id, "err", err)
	default:
		m.notice = ""
	}
}

func (m *model) updateGame(key string) {
	h := m.host
	if h == nil {
		return
	}
	if key == "esc" {
		h.Back()
		return
	}
	if key == "t" {
		h.Replay()
		return
	}

	switch h.Stage() {
	case minigame.StageIntro:
		if key == "enter" || key == " " {
			h.Start()
		}
	case minigame.StagePlaying:
		if key == "r" {
			h.Restart()
			return
		}
		m.board.reset(h.Game())
		m.board.handleKey(key)
	case minigame.StageWon:
		switch key {
		case "enter", " ", "n":
			h.Next()
		case "r":
			h.Restart()
		}
	case minigame.StageFailed:
		switch key {
		case "enter", " ", "r":
			h.Restart()
		}
	}
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	var b strings.Builder
	switch m.sess.Store().Screen() {
	case progress.ScreenCharacterSelect:
		b.WriteString(m.characterSelectView())
	case progress.ScreenMap:
		b.WriteString(m.mapView())
	case progress.ScreenMiniGame:
		b.WriteString(m.gameView())
	}
	b.WriteString(m.statusView())
	return indent.String(b.String(), 2)
}

func (m model) characterSelectView() string {
	var b strings.Builder
	b.WriteString(heading("Astronotunu Seç"))
	b.WriteString("\n")
	for i, c := range progress.Characters() {
		cur := "  "
		if i == m.charCursor {
			cur = cursorStyle.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%d. %s  %s\n", cur, i+1, colored(c.Color, c.Name), subtleStyle.Render(c.Description))
	}
	b.WriteString(helpStyle.Render("↑/↓ seç • enter onayla • q çık"))
	return b.String()
}

func (m model) mapView() string {
	snap := m.sess.Store().Snapshot()

	var b strings.Builder
	b.WriteString(heading("Güneş Sistemi"))
	b.WriteString("\n")
	if snap.Character != nil {
		fmt.Fprintf(&b, "%s  %s %d\n\n", colored(snap.Character.Color, snap.Character.Name), starStyle.Render(fullStar), snap.TotalStars)
	}
	for i, p := range snap.Planets {
		cur := "  "
		if i == m.planetCursor {
			cur = cursorStyle.Render("▸ ")
		}
		badge := stars(p.Stars)
		name := colored(p.Color, p.Name)
		if !p.Unlocked {
			badge = lockIcon
			name = subtleStyle.Render(p.Name)
		}
		fmt.Fprintf(&b, "%s%d. %-10s %s  %s\n", cur, i+1, name, badge, subtleStyle.Render(p.Description))
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.robotView(m.notice))
	}
	b.WriteString(helpStyle.Render("↑/↓ gezegen • enter git • p duraklat • q çık"))
	return b.String()
}

func (m model) gameView() string {
	h := m.host
	if h == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(heading(string(h.Planet())))
	b.WriteString("\n")
	b.WriteString(m.robotView(h.Message()))
	b.WriteString("\n")

	switch h.Stage() {
	case minigame.StageIntro:
		if h.CanStart() {
			b.WriteString(buttonStyle.Render(h.StartLabel()))
		} else {
			b.WriteString(disabledButtonStyle.Render(m.spinner.View() + " " + h.StartLabel()))
		}
		b.WriteString(helpStyle.Render("\nenter başla • t tekrar dinle • esc geri"))

	case minigame.StagePlaying:
		if g := h.Game(); g != nil {
			if m.common.cfg.ShowDebug {
				fmt.Fprintf(&b, "%s\n", subtleStyle.Render(fmt.Sprintf("level %d/%d • mistakes %d", g.Level(), minigame.Levels, h.Mistakes())))
			}
			m.board.reset(g)
			b.WriteString(m.board.view(m.spinner.View()))
		}
		b.WriteString(helpStyle.Render("\nr yeniden • t tekrar dinle • esc geri"))

	case minigame.StageWon:
		b.WriteString(titleStyle.Render(turkishUpper.String(content.WinTitle)))
		b.WriteString("\n")
		b.WriteString(stars(h.Stars()))
		b.WriteString("\n" + subtleStyle.Render(content.WinSubtitle) + "\n\n")
		b.WriteString(buttonStyle.Render(h.NextLabel()))
		b.WriteString(helpStyle.Render("\nenter " + h.NextLabel() + " • r " + content.PlayAgain + " • esc geri"))

	case minigame.StageFailed:
		b.WriteString(titleStyle.Render(turkishUpper.String(content.FailTitle)))
		b.WriteString("\n" + subtleStyle.Render(content.FailSubtitle) + "\n\n")
		b.WriteString(buttonStyle.Render(content.TryAgain))
		b.WriteString(helpStyle.Render("\nenter " + content.TryAgain + " • esc geri"))
	}
	return b.String()
}

// robotView renders a speech bubble that fits the terminal.
func (m model) robotView(text string) string {
	width := max(20, min(m.common.width-8, 72))
	label := cursorStyle.Render(robotName)
	if m.speaking {
		label += " " + m.spinner.View()
		if m.paused {
			label += subtleStyle.Render(" (duraklatıldı)")
		}
	}
	return label + "\n" + bubbleStyle.Render(wordwrap.String(text, width)) + "\n"
}

func (m model) statusView() string {
	if !m.speaking {
		return ""
	}
	return "\n" + subtleStyle.Render("🔊 konuşuyor")
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent.String(s, 3)
}

// digit maps "1".."9" to 0..8.
func digit(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
