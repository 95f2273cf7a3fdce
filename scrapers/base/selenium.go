package base

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const (
	idlePollInterval = 250 * time.Millisecond
	idleQuietPeriod  = 500 * time.Millisecond
)

// quietScript reports whether the document finished loading and how many
// resources the page has requested so far.
const quietScript = `return [document.readyState, performance.getEntriesByType('resource').length];`

// SeleniumRenderer renders pages through a local chromedriver. A driver
// service is started per page on a port leased from Ports.
type SeleniumRenderer struct {
	DriverPath string
	UserAgent  string
	Timeout    time.Duration
	Ports      *PortManager
}

// NewSeleniumRenderer creates a SeleniumRenderer using ports 4444-4459.
func NewSeleniumRenderer(driverPath string, timeout time.Duration, userAgent string) *SeleniumRenderer {
	return &SeleniumRenderer{
		DriverPath: driverPath,
		UserAgent:  userAgent,
		Timeout:    timeout,
		Ports:      NewPortManager(4444, 16),
	}
}

// Render loads url and waits until the page stops requesting resources.
func (s *SeleniumRenderer) Render(ctx context.Context, url string) (string, error) {
	port, err := s.Ports.GetPort()
	if err != nil {
		return "", fmt.Errorf("port error: %w", err)
	}
	defer s.Ports.ReleasePort(port)

	service, err := selenium.NewChromeDriverService(s.DriverPath, port)
	if err != nil {
		return "", fmt.Errorf("error starting Chrome driver service: %w", err)
	}
	defer service.Stop()

	caps := selenium.Capabilities{"browserName": "chrome"}
	args := []string{
		"--headless=new",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-extensions",
		"--disable-gpu",
		"--window-size=1920,1080",
	}
	if s.UserAgent != "" {
		args = append(args, fmt.Sprintf("--user-agent=%s", s.UserAgent))
	}
	caps.AddChrome(chrome.Capabilities{
		Args:            args,
		ExcludeSwitches: []string{"enable-automation"},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		return "", fmt.Errorf("error creating WebDriver: %w", err)
	}
	defer driver.Quit()

	if s.Timeout > 0 {
		if err := driver.SetPageLoadTimeout(s.Timeout); err != nil {
			return "", fmt.Errorf("page load timeout: %w", err)
		}
	}
	if err := driver.Get(url); err != nil {
		return "", fmt.Errorf("navigation error: %w", err)
	}

	if err := s.waitQuiet(ctx, driver); err != nil {
		return "", err
	}

	html, err := driver.PageSource()
	if err != nil {
		return "", fmt.Errorf("page source error: %w", err)
	}
	return html, nil
}

// waitQuiet polls until readyState is complete and the resource count has not
// changed for idleQuietPeriod.
func (s *SeleniumRenderer) waitQuiet(ctx context.Context, driver selenium.WebDriver) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	lastCount := -1
	stableSince := time.Now()
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		res, err := driver.ExecuteScript(quietScript, nil)
		if err != nil {
			return fmt.Errorf("idle probe: %w", err)
		}
		state, count := parseQuietProbe(res)
		if state == "complete" {
			if count != lastCount {
				lastCount = count
				stableSince = time.Now()
			} else if time.Since(stableSince) >= idleQuietPeriod {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			log.Debug().Int("resources", lastCount).Msg("selenium idle wait gave up")
			return fmt.Errorf("waiting for network idle: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func parseQuietProbe(res interface{}) (string, int) {
	parts, ok := res.([]interface{})
	if !ok || len(parts) != 2 {
		return "", 0
	}
	state, _ := parts[0].(string)
	// JSON numbers arrive as float64
	count, _ := parts[1].(float64)
	return state, int(count)
}
