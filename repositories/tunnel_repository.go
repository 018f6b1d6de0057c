package repositories

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"regexp"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type TunnelConfiguration struct {
	// Path to the cloudflared binary used to open quick tunnels.
	BinaryPath string
	// How long to wait for the public address to appear on stderr.
	StartTimeout time.Duration
}

// Tunnel is one live public forwarding address backed by a subprocess.
type Tunnel struct {
	PublicUrl string

	cmd       *exec.Cmd
	closeOnce sync.Once
}

func (t *Tunnel) Url() string {
	return t.PublicUrl
}

func (t *Tunnel) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if t.cmd != nil && t.cmd.Process != nil {
			err = t.cmd.Process.Kill()
			// Reap the child so it does not linger as a zombie.
			_ = t.cmd.Wait()
		}
	})
	return err
}

// TunnelRepository exposes a local port on a public address by driving a
// cloudflared quick-tunnel subprocess and scraping the assigned URL from its
// diagnostics output.
type TunnelRepository struct {
	config TunnelConfiguration
}

func NewTunnelRepository(config TunnelConfiguration) TunnelRepository {
	if config.BinaryPath == "" {
		config.BinaryPath = "cloudflared"
	}
	if config.StartTimeout == 0 {
		config.StartTimeout = 20 * time.Second
	}
	return TunnelRepository{config: config}
}

var tunnelUrlPattern = regexp.MustCompile(`https://[a-z0-9-]+\.trycloudflare\.com`)

func (repo TunnelRepository) OpenTunnel(ctx context.Context, localAddr string) (*Tunnel, error) {
	logger := utils.LoggerFromContext(ctx)

	cmd := exec.Command(repo.config.BinaryPath, "tunnel", "--url", "http://"+localAddr)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(models.TunnelError, err.Error())
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(models.TunnelError, "can't start %s: %v", repo.config.BinaryPath, err)
	}

	urlChan := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if url := tunnelUrlPattern.FindString(scanner.Text()); url != "" {
				urlChan <- url
				break
			}
		}
		// Drain so the subprocess never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stderr)
	}()

	select {
	case url := <-urlChan:
		logger.InfoContext(ctx, "tunnel opened", "public_url", url, "local_addr", localAddr)
		return &Tunnel{PublicUrl: url, cmd: cmd}, nil
	case <-time.After(repo.config.StartTimeout):
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, errors.Wrap(models.TunnelError, "timed out waiting for the public tunnel address")
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, errors.Wrap(models.TunnelError, ctx.Err().Error())
	}
}
