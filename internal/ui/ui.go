package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	title        = "Manglish Roast Battle"
	tagline      = "Share your tragedy. Enittu vangi kootikko. (Then, get ready to be roasted.)"
	placeholder  = "What happened now?"
	submitLabel  = "Roast Me"
	loadingLabel = "Loading your insult..."
)

// Form is the roast form: a text area, a submit button, an error line and
// the response area.
type Form struct {
	app     *tview.Application
	ctx     context.Context
	session *roast.Session
	dev     bool

	header       *tview.TextView
	textArea     *tview.TextArea
	button       *tview.Button
	errorView    *tview.TextView
	responseView *tview.TextView
	debugConsole *tview.TextView
	mainFlex     *tview.Flex
	showDebug    bool

	localLogger *logger.Logger
}

// NewForm builds the widgets. The debug console exists even when dev is off
// so /debug can show it later.
func NewForm(dev bool) *Form {
	f := &Form{
		app: tview.NewApplication(),
		dev: dev,
	}
	f.app.EnablePaste(true)
	f.app.EnableMouse(true)

	f.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText(fmt.Sprintf("[::b]%s[::-]\n%s", title, tagline))

	f.textArea = tview.NewTextArea().SetPlaceholder(placeholder)
	f.textArea.SetTitle("Your tragedy").SetBorder(true)

	f.button = tview.NewButton(submitLabel).SetSelectedFunc(f.submit)

	f.errorView = tview.NewTextView().SetTextColor(tcell.ColorRed).SetWordWrap(true)

	f.responseView = tview.NewTextView().SetWordWrap(true).SetScrollable(true)
	f.responseView.SetTitle("Roast:").SetBorder(true)

	f.debugConsole = initDebugConsole(f.app)
	return f
}

func initDebugConsole(app *tview.Application) *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

// DebugConsole is handed to logger.InitLogger.
func (f *Form) DebugConsole() *tview.TextView {
	return f.debugConsole
}

// Run shows the form until the user quits or ctx is cancelled.
func (f *Form) Run(ctx context.Context, session *roast.Session) error {
	f.ctx = ctx
	f.session = session
	f.localLogger = logger.NewLogger("views")

	buttonRow := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(f.button, len(loadingLabel)+4, 0, false).
		AddItem(nil, 0, 1, false)

	formFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(f.header, 3, 0, false).
		AddItem(f.textArea, 6, 0, true).
		AddItem(buttonRow, 1, 0, false).
		AddItem(f.errorView, 2, 0, false).
		AddItem(f.responseView, 0, 1, false)

	f.mainFlex = tview.NewFlex().AddItem(formFlex, 0, 2, true)
	if f.dev {
		f.mainFlex.AddItem(f.debugConsole, 0, 1, false)
		f.showDebug = true
	}

	f.setInputCapture()

	go func() {
		<-ctx.Done()
		f.app.Stop()
	}()

	return f.app.SetRoot(f.mainFlex, true).SetFocus(f.textArea).Run()
}

func (f *Form) setInputCapture() {
	f.textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			if event.Modifiers()&tcell.ModAlt != 0 {
				return event
			}
			f.submit()
			return nil
		case tcell.KeyTab:
			f.app.SetFocus(f.button)
			return nil
		}
		return event
	})

	f.button.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab, tcell.KeyBacktab, tcell.KeyESC:
			f.app.SetFocus(f.textArea)
			return nil
		}
		return event
	})
}

// submit sends the current input unless a submission is already pending.
func (f *Form) submit() {
	content := f.textArea.GetText()

	if f.runCommand(strings.TrimSpace(content)) {
		f.textArea.SetText("", false)
		return
	}

	if f.session.Pending() {
		return
	}

	f.setPending(true)
	go func() {
		res, err := f.session.Submit(f.ctx, content)
		f.app.QueueUpdateDraw(func() {
			if errors.Is(err, roast.ErrPending) {
				return
			}
			f.setPending(false)
			f.render(res)
			f.app.SetFocus(f.textArea)
		})
	}()
}

// setPending switches the loading state. Starting a submission clears the
// previous roast and error.
func (f *Form) setPending(pending bool) {
	if pending {
		f.errorView.Clear()
		f.responseView.Clear()
		f.button.SetLabel(loadingLabel)
	} else {
		f.button.SetLabel(submitLabel)
	}
	f.button.SetDisabled(pending)
	f.textArea.SetDisabled(pending)
}

func (f *Form) render(res roast.Result) {
	if res.OK() {
		f.errorView.Clear()
		f.responseView.SetText(res.Text)
		f.responseView.ScrollToBeginning()
		return
	}
	f.responseView.Clear()
	f.errorView.SetText(res.Message)
	if f.localLogger != nil {
		f.localLogger.Warn("Showing failure:", res.Kind)
	}
}

// runCommand handles the slash commands and reports whether content was one.
func (f *Form) runCommand(content string) bool {
	switch content {
	case "/help":
		f.listHelp()
	case "/bye", "/quit", "/exit":
		f.quitApp()
	case "/debug":
		f.toggleDebugConsole()
	default:
		return false
	}
	return true
}

func (f *Form) toggleDebugConsole() {
	if f.mainFlex == nil {
		return
	}
	if f.showDebug {
		f.mainFlex.RemoveItem(f.debugConsole)
	} else {
		f.mainFlex.AddItem(f.debugConsole, 0, 1, false)
	}
	f.showDebug = !f.showDebug
}

func (f *Form) quitApp() {
	if f.localLogger != nil {
		f.localLogger.Info("Shutting down gracefully.")
	}
	f.app.Stop()
}

func (f *Form) listHelp() {
	f.errorView.Clear()
	f.responseView.SetText(strings.Join([]string{
		"Type what went wrong and press Enter (or Tab to the button) to get roasted.",
		"",
		"Commands:",
		"- /help: Display this help message",
		"- /bye: Exit the application",
		"- /debug: Toggle the debug console",
	}, "\n"))
}
