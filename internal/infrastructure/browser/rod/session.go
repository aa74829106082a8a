package rod

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"control-agent/internal/application/port/output"
	"control-agent/internal/domain/entity"
	"control-agent/internal/infrastructure/browser/htmlx"
)

var _ output.BrowserPort = (*Session)(nil)

// Session drives a single Chromium page. Every method reports failure as a
// zero value instead of an error; the orchestrator treats the browser as a
// best-effort facility.
type Session struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	page      *rod.Page
	cfg       Config
	logger    output.LoggerPort
	navigated bool
}

type Config struct {
	Headless    bool
	NoSandbox   bool
	FindTimeout time.Duration
	NavTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Headless:    true,
		NoSandbox:   true,
		FindTimeout: 10 * time.Second,
		NavTimeout:  30 * time.Second,
	}
}

func NewSession(ctx context.Context, cfg Config, logger output.LoggerPort) (*Session, error) {
	if cfg.FindTimeout <= 0 {
		cfg.FindTimeout = 10 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, err
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) bool {
	page := s.page.Context(ctx).Timeout(s.cfg.NavTimeout)
	if err := page.Navigate(url); err != nil {
		s.logger.Warn("navigation failed", "url", url, "error", err)
		return false
	}
	if err := page.WaitLoad(); err != nil {
		s.logger.Warn("page load wait failed", "url", url, "error", err)
		return false
	}
	_ = page.WaitIdle(5 * time.Second)
	s.navigated = true
	return true
}

func (s *Session) CurrentURL() (string, bool) {
	if !s.navigated {
		return "", false
	}
	info, err := s.page.Info()
	if err != nil {
		return "", false
	}
	return info.URL, true
}

func (s *Session) Title() (string, bool) {
	if !s.navigated {
		return "", false
	}
	info, err := s.page.Info()
	if err != nil {
		return "", false
	}
	return info.Title, true
}

func (s *Session) Click(ctx context.Context, selectorKind, selectorValue string) bool {
	el, ok := s.find(ctx, selectorKind, selectorValue)
	if !ok {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Warn("click failed", "selector", selectorValue, "error", err)
		return false
	}
	_ = s.page.WaitIdle(2 * time.Second)
	return true
}

func (s *Session) TypeText(ctx context.Context, selectorKind, selectorValue, text string, clearFirst bool) bool {
	el, ok := s.find(ctx, selectorKind, selectorValue)
	if !ok {
		return false
	}
	if clearFirst {
		if err := el.SelectAllText(); err == nil {
			_ = el.Input("")
		}
	}
	if err := el.Input(text); err != nil {
		s.logger.Warn("input failed", "selector", selectorValue, "error", err)
		return false
	}
	return true
}

func (s *Session) ExtractText(ctx context.Context) string {
	raw, ok := s.pageHTML(ctx)
	if !ok {
		return ""
	}
	return htmlx.ExtractText(raw)
}

func (s *Session) ExtractLinks(ctx context.Context) []entity.Link {
	raw, ok := s.pageHTML(ctx)
	if !ok {
		return nil
	}
	base, _ := s.CurrentURL()
	return htmlx.ExtractLinks(raw, base)
}

func (s *Session) Screenshot(ctx context.Context, path string) bool {
	imgBytes, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		s.logger.Warn("screenshot failed", "error", err)
		return false
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return false
	}
	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return false
	}

	if filepath.Ext(path) == "" {
		path += ".jpg"
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		s.logger.Warn("screenshot write failed", "path", path, "error", err)
		return false
	}
	return true
}

func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}

func (s *Session) pageHTML(ctx context.Context) (string, bool) {
	raw, err := s.page.Context(ctx).Timeout(s.cfg.FindTimeout).HTML()
	if err != nil {
		s.logger.Warn("html fetch failed", "error", err)
		return "", false
	}
	return raw, true
}

// find locates an element by one of the selector kinds the model is told
// about. Unknown kinds fall through to a raw CSS selector.
func (s *Session) find(ctx context.Context, kind, value string) (*rod.Element, bool) {
	page := s.page.Context(ctx).Timeout(s.cfg.FindTimeout)

	var (
		el  *rod.Element
		err error
	)
	switch strings.ToLower(kind) {
	case "id":
		el, err = page.Element("#" + value)
	case "name":
		el, err = page.Element(`[name="` + value + `"]`)
	case "class":
		el, err = page.Element("." + value)
	case "xpath":
		el, err = page.ElementX(value)
	default:
		el, err = page.Element(value)
	}
	if err != nil {
		s.logger.Warn("element not found", "kind", kind, "selector", value)
		return nil, false
	}
	return el, true
}
