package radio

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Radiola/internal/annotate"
	"github.com/shaiso/Radiola/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTelnet поднимает телнет-сервер, отвечающий response на любую
// команду. Принятые команды складываются в канал.
func fakeTelnet(t *testing.T, response string) (*domain.Station, chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	cmds := make(chan string, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				cmds <- strings.TrimSpace(line)
				io.WriteString(c, response)
			}(conn)
		}
	}()

	station := &domain.Station{
		ShortName:   "lofi",
		BackendType: domain.BackendLiquidsoap,
		BackendHost: "127.0.0.1",
		BackendPort: ln.Addr().(*net.TCPAddr).Port,
	}
	return station, cmds
}

// --- Liquidsoap Tests ---

func TestLiquidsoap_IsQueueEmpty_Empty(t *testing.T) {
	station, cmds := fakeTelnet(t, "\r\nEND\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	empty, err := ls.IsQueueEmpty(context.Background(), station)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty {
		t.Error("blank response means an empty queue")
	}

	if cmd := <-cmds; cmd != "lofi_requests.queue" {
		t.Errorf("expected lofi_requests.queue, got %s", cmd)
	}
}

func TestLiquidsoap_IsQueueEmpty_Occupied(t *testing.T) {
	station, _ := fakeTelnet(t, "42\r\nEND\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	empty, err := ls.IsQueueEmpty(context.Background(), station)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty {
		t.Error("request id in the response means an occupied queue")
	}
}

func TestLiquidsoap_Enqueue(t *testing.T) {
	station, cmds := fakeTelnet(t, "17\r\nEND\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	ann := &annotate.Annotation{
		Path:   "/media/song.mp3",
		Fields: map[string]string{"title": "Song"},
	}

	resp, err := ls.Enqueue(context.Background(), station, ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "17" {
		t.Errorf("expected raw response 17, got %q", resp)
	}

	cmd := <-cmds
	if !strings.HasPrefix(cmd, "lofi_requests.push ") {
		t.Errorf("expected a push command, got %s", cmd)
	}
	if !strings.Contains(cmd, ann.URI()) {
		t.Errorf("push should carry the annotate URI, got %s", cmd)
	}
}

func TestLiquidsoap_Enqueue_Rejected(t *testing.T) {
	station, _ := fakeTelnet(t, "ERROR: invalid URI\r\nEND\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	ann := &annotate.Annotation{Path: "/media/song.mp3", Fields: map[string]string{}}
	_, err := ls.Enqueue(context.Background(), station, ann)
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestLiquidsoap_NowPlaying(t *testing.T) {
	response := "artist=\"Artist\"\r\ntitle=\"Song\"\r\nunique_id=\"a1b2c3\"\r\nEND\r\n"
	station, cmds := fakeTelnet(t, response)
	ls := NewLiquidsoap(time.Second, testLogger())

	uid, err := ls.NowPlaying(context.Background(), station)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "a1b2c3" {
		t.Errorf("expected unique_id a1b2c3, got %q", uid)
	}

	if cmd := <-cmds; cmd != "lofi_metadata" {
		t.Errorf("expected lofi_metadata, got %s", cmd)
	}
}

func TestLiquidsoap_NowPlaying_Silent(t *testing.T) {
	station, _ := fakeTelnet(t, "END\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	uid, err := ls.NowPlaying(context.Background(), station)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "" {
		t.Errorf("expected empty unique_id for a silent station, got %q", uid)
	}
}

func TestLiquidsoap_Unreachable(t *testing.T) {
	// Порт без слушателя
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	station := &domain.Station{
		ShortName:   "lofi",
		BackendType: domain.BackendLiquidsoap,
		BackendHost: "127.0.0.1",
		BackendPort: port,
	}

	ls := NewLiquidsoap(200*time.Millisecond, testLogger())
	if _, err := ls.IsQueueEmpty(context.Background(), station); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestLiquidsoap_ConnectionClosedBeforeEND(t *testing.T) {
	// Сервер обрывает соединение без терминатора
	station, _ := fakeTelnet(t, "partial response\r\n")
	ls := NewLiquidsoap(time.Second, testLogger())

	if _, err := ls.IsQueueEmpty(context.Background(), station); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

// --- Adapters Tests ---

func TestAdapters_BackendFor(t *testing.T) {
	adapters := NewAdapters(time.Second, testLogger())

	liquidsoap := &domain.Station{BackendType: domain.BackendLiquidsoap}
	if _, ok := adapters.BackendFor(liquidsoap); !ok {
		t.Error("liquidsoap station should resolve to a backend")
	}

	none := &domain.Station{BackendType: domain.BackendNone}
	if _, ok := adapters.BackendFor(none); ok {
		t.Error("station without AutoDJ must not resolve to a backend")
	}
}
