package radio

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/shaiso/Radiola/internal/annotate"
	"github.com/shaiso/Radiola/internal/domain"
)

// Liquidsoap — адаптер Liquidsoap AutoDJ.
//
// Общается с телнет-интерфейсом Liquidsoap: одна команда на
// соединение, ответ — строки до терминатора "END". Команды
// станции префиксуются её short_name:
//
//	<short>_requests.queue      — содержимое очереди заявок
//	<short>_requests.push <uri> — постановка annotate-URI в очередь
//	<short>_metadata            — метаданные трека в эфире
type Liquidsoap struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewLiquidsoap создаёт новый адаптер.
func NewLiquidsoap(timeout time.Duration, logger *slog.Logger) *Liquidsoap {
	return &Liquidsoap{
		timeout: timeout,
		logger:  logger,
	}
}

// IsQueueEmpty реализует Backend.
func (l *Liquidsoap) IsQueueEmpty(ctx context.Context, station *domain.Station) (bool, error) {
	resp, err := l.command(ctx, station, station.ShortName+"_requests.queue")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(resp) == "", nil
}

// Enqueue реализует Backend.
func (l *Liquidsoap) Enqueue(ctx context.Context, station *domain.Station, ann *annotate.Annotation) (string, error) {
	resp, err := l.command(ctx, station, station.ShortName+"_requests.push "+ann.URI())
	if err != nil {
		return "", err
	}

	l.logger.Debug("liquidsoap push response",
		"station", station.ShortName,
		"response", resp,
	)
	return resp, nil
}

// NowPlaying реализует NowPlayingProvider.
func (l *Liquidsoap) NowPlaying(ctx context.Context, station *domain.Station) (string, error) {
	resp, err := l.command(ctx, station, station.ShortName+"_metadata")
	if err != nil {
		return "", err
	}

	// Ответ — строки вида key="value"; нужен unique_id.
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, `unique_id="`); ok {
			return strings.TrimSuffix(value, `"`), nil
		}
	}
	return "", nil
}

// command выполняет одну телнет-команду и возвращает ответ.
func (l *Liquidsoap) command(ctx context.Context, station *domain.Station, cmd string) (string, error) {
	addr := net.JoinHostPort(station.BackendHost, fmt.Sprintf("%d", station.BackendPort))

	dialer := net.Dialer{Timeout: l.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %v", ErrUnreachable, addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(l.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("%w: set deadline: %v", ErrUnreachable, err)
	}

	if _, err := fmt.Fprintf(conn, "%s\n", cmd); err != nil {
		return "", fmt.Errorf("%w: write command: %v", ErrUnreachable, err)
	}

	var lines []string
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "END" {
			resp := strings.Join(lines, "\n")
			if strings.HasPrefix(resp, "ERROR") {
				return "", fmt.Errorf("%w: %s", ErrRejected, resp)
			}
			return resp, nil
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}
	return "", fmt.Errorf("%w: connection closed before END", ErrUnreachable)
}
