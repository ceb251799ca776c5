package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/ninesnake/internal/game"
	"github.com/Mshel/ninesnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// connectionLimiter caps concurrent SSH sessions per remote IP.
type connectionLimiter struct {
	mu        sync.Mutex
	ipCounter map[string]int
	limit     int
}

func newConnectionLimiter(limit int) *connectionLimiter {
	return &connectionLimiter{ipCounter: make(map[string]int), limit: limit}
}

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// acquire reserves a slot for ip and returns the count before the attempt.
func (l *connectionLimiter) acquire(ip string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.ipCounter[ip]
	if current >= l.limit {
		return current, false
	}
	l.ipCounter[ip]++
	return current, true
}

func (l *connectionLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ipCounter[ip]--
	if l.ipCounter[ip] <= 0 {
		delete(l.ipCounter, ip)
	}
}

func (l *connectionLimiter) count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ipCounter[ip]
}

func (l *connectionLimiter) middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)

		currentCount, ok := l.acquire(ip)
		if !ok {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", currentCount+1, "current_limit", l.limit)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", currentCount+1, l.limit)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}
		defer func() {
			l.release(ip)
			log.Info("Connection closed and counter decremented", "ip", ip, "count_after", l.count(ip))
		}()

		log.Info("Connection accepted", "ip", ip, "current_count", currentCount+1, "limit", l.limit)
		next(s)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over SSH",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			scores, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer scores.Close()

			return serve(cfg.Address(), cfg.Server.HostKeyPath, cfg.Server.MaxConnectionsPerIP,
				game.NewHighScoreService(scores))
		},
	}
}

func serve(address, hostKeyPath string, maxConnectionsPerIP int, highScores *game.HighScoreService) error {
	limiter := newConnectionLimiter(maxConnectionsPerIP)

	sshServer, err := wish.NewServer(
		wish.WithAddress(address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(newViewHandler(highScores)),
			activeterm.Middleware(),
			limiter.middleware,
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Info("Starting SSH server", "address", address)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-serverDoneChannel:
	case err := <-serveErr:
		return fmt.Errorf("could not start server: %w", err)
	}

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("could not stop server: %w", err)
	}
	return nil
}

// newViewHandler gives every SSH connection its own board and session; only
// the high score store is shared.
func newViewHandler(highScores *game.HighScoreService) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()

		board := ui.NewBoard()
		gameSession := game.NewSession(board, highScores)
		gameSession.Initialize()
		log.Debug("Game session created", "session", gameSession.ID(), "user", sshSession.User())

		go func() {
			<-sshSession.Context().Done()
			gameSession.Stop()
			log.Debug("Game session released", "session", gameSession.ID())
		}()

		controllerModel := ui.NewControllerModel(gameSession, board, pty.Window.Width, pty.Window.Height)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
