package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TheBaby5/updated-discourse-click-to-edit/loaders"
	"github.com/TheBaby5/updated-discourse-click-to-edit/previewsync"
	syncAdapter "github.com/TheBaby5/updated-discourse-click-to-edit/previewsync/tview"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func main() {
	scrollDebounce := flag.Duration("scroll-debounce", 50*time.Millisecond, "delay before syncing preview scroll after caret movement")
	highlightDebounce := flag.Duration("highlight-debounce", 200*time.Millisecond, "delay before highlighting the synced preview element")
	threshold := flag.Float64("threshold", 0.4, "minimum match score for content-based resolution")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file-path-or-url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	arg := flag.Arg(0)

	// load initial content
	content, sourcePath, err := loadContent(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading content: %v\n", err)
		os.Exit(1)
	}

	app := tview.NewApplication()

	// editor pane on the left, rendered preview on the right
	editor := syncAdapter.NewEditorView(content)
	preview := syncAdapter.NewPreviewView()
	preview.SetQueueUpdate(func(fn func()) {
		go app.QueueUpdateDraw(fn)
	})
	preview.SetDocument(content)

	cfg := previewsync.Config{
		ScrollDebounce:    *scrollDebounce,
		HighlightDebounce: *highlightDebounce,
		AcceptThreshold:   *threshold,
	}
	controller := previewsync.NewController(editor, preview, cfg)
	defer controller.Teardown()

	// clicking a preview element selects its source line in the editor
	preview.SetActivateHandler(func(node *previewsync.Node) {
		controller.OnPreviewNodeActivated(node)
		app.SetFocus(editor)
	})

	// caret movement schedules a preview sync; edits also re-render
	editor.SetMovedHandler(func() {
		controller.OnEditorPositionChanged()
	})
	editor.SetChangedHandler(func() {
		preview.SetDocument(editor.Text())
		controller.OnEditorPositionChanged()
	})

	statusBar := tview.NewTextView()
	statusBar.SetDynamicColors(true)
	statusBar.SetTextAlign(tview.AlignLeft)
	statusBar.SetText(statusText(sourcePath))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(editor, 0, 1, true).
			AddItem(preview, 0, 1, false), 0, 1, true).
		AddItem(statusBar, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlQ {
			app.Stop()
			return nil
		}
		if event.Key() == tcell.KeyTab {
			if editor.HasFocus() {
				app.SetFocus(preview)
			} else {
				app.SetFocus(editor)
			}
			return nil
		}
		return event
	})

	app.EnableMouse(true)

	if err := app.SetRoot(flex, true).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running application: %v\n", err)
		os.Exit(1)
	}
}

// loadContent loads content from a file path or URL.
func loadContent(arg string) (content string, sourcePath string, err error) {
	loader := &loaders.FileHTTP{SearchRoots: []string{"."}}

	if loaders.IsWebLocation(arg) {
		content, err := loader.Fetch(arg, "")
		return content, arg, err
	}

	absPath, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve path: %w", err)
	}

	content, err = loader.Fetch(absPath, "")
	if err != nil {
		return "", "", err
	}
	return content, absPath, nil
}

func statusText(sourcePath string) string {
	fileName := filepath.Base(sourcePath)
	if fileName == "" || fileName == "." {
		fileName = "document"
	}
	return fmt.Sprintf(" [yellow]%s[-] | Switch pane:[gray]Tab[-] | Click preview to select source | Quit:[gray]Ctrl-Q[-]", fileName)
}
