package app

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mull-sh/mull/internal/stream"

	tea "github.com/charmbracelet/bubbletea"
)

// TestLiveTUIFlow exercises the full model lifecycle against a running
// agent daemon. Skipped if the daemon isn't running.
func TestLiveTUIFlow(t *testing.T) {
	sockPath := stream.SocketPath()
	if _, err := os.Stat(sockPath); os.IsNotExist(err) {
		t.Skip("daemon not running")
	}

	m := newTestModel()

	// Simulate terminal size
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	if view == "Starting mull..." {
		t.Error("view should render after WindowSizeMsg")
	}
	fmt.Println("=== Initial View ===")
	fmt.Println(view)

	// Connect and subscribe
	client, err := stream.Connect(sockPath)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	m, _ = applyUpdate(m, ConnectedMsg{Client: client})
	if !m.connected {
		t.Fatal("expected connected")
	}

	subResp, err := client.SendCommand(stream.Command{Cmd: "subscribe"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !subResp.OK {
		t.Fatalf("subscribe failed: %s", subResp.Error)
	}

	// Read events for 5 seconds and feed them into the model.
	fmt.Println("\n=== Collecting events for 5 seconds ===")
	eventCounts := map[string]int{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.After(5 * time.Second)
		for {
			select {
			case <-deadline:
				return
			default:
				ev, err := client.ReadEvent()
				if err != nil {
					fmt.Printf("Event read error: %v\n", err)
					return
				}
				eventCounts[ev.Event]++
				m.handleEvent(ev)
				fmt.Printf("  %s event\n", ev.Event)
			}
		}
	}()

	<-done

	// Render view after the live burst
	view = m.View()
	fmt.Println("\n=== Live View ===")
	fmt.Println(view)

	// Event summary
	fmt.Println("\n=== Event Summary ===")
	total := 0
	for evType, count := range eventCounts {
		fmt.Printf("  %s: %d\n", evType, count)
		total += count
	}
	fmt.Printf("  Total: %d events\n", total)
	fmt.Printf("  Messages: %d\n", len(m.msgs))
	fmt.Printf("  Active thinking: %d\n", m.tracker.ActiveCount())
}

func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}
