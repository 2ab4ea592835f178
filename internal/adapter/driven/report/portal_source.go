// Package report holds the ReportSource implementations.
package report

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/playwright-community/playwright-go"
)

const (
	loginPath       = "/auth/login"
	loginWait       = 30 * time.Second
	enqueueSettle   = 2 * time.Second
	rangeTextTarget = ".reportrange-text"
)

// PortalSource drives the vendor portal in a headless Chromium and downloads
// the custom report CSV.
type PortalSource struct {
	baseURL  string
	user     string
	password string
	headless bool
	timeout  time.Duration
}

// NewPortalSource creates a portal source from the source configuration.
func NewPortalSource(cfg types.SourceConfig) *PortalSource {
	headless := true
	if cfg.Headless != nil {
		headless = *cfg.Headless
	}
	return &PortalSource{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		headless: headless,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// InstallCommand is the CLI command that provisions the browser driver.
const InstallCommand = "ticket-ledger install-browser"

// InstallBrowser downloads the playwright driver and the Chromium build it drives.
func InstallBrowser() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("installing playwright chromium: %w", err)
	}
	return nil
}

func startError(err error) error {
	return fmt.Errorf("%w: starting playwright (run %q to install the driver and chromium): %w",
		types.ErrSourceUnavailable, InstallCommand, err)
}

type fetchResult struct {
	text string
	err  error
}

// Fetch runs the whole browser session. Cancelling ctx closes the browser.
func (s *PortalSource) Fetch(ctx context.Context, span entity.DateSpan) (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", startError(err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.headless),
	})
	if err != nil {
		return "", fmt.Errorf("%w: launching chromium (run %q if it is missing): %w", types.ErrSourceUnavailable, InstallCommand, err)
	}
	defer browser.Close()

	done := make(chan fetchResult, 1)
	go func() {
		text, err := s.download(ctx, browser, span)
		done <- fetchResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		browser.Close()
		<-done
		return "", fmt.Errorf("%w: %w", types.ErrSourceUnavailable, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %w", types.ErrSourceUnavailable, res.err)
		}
		return res.text, nil
	}
}

func (s *PortalSource) download(ctx context.Context, browser playwright.Browser, span entity.DateSpan) (string, error) {
	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	if s.timeout > 0 {
		page.SetDefaultTimeout(float64(s.timeout.Milliseconds()))
	}

	// 1. login
	if _, err := page.Goto(s.baseURL + loginPath); err != nil {
		return "", fmt.Errorf("opening login page: %w", err)
	}
	if err := page.GetByRole("textbox", playwright.PageGetByRoleOptions{Name: "Email"}).Fill(s.user); err != nil {
		return "", fmt.Errorf("filling email: %w", err)
	}
	if err := page.GetByRole("textbox", playwright.PageGetByRoleOptions{Name: "Password"}).Fill(s.password); err != nil {
		return "", fmt.Errorf("filling password: %w", err)
	}
	if err := page.GetByRole("button", playwright.PageGetByRoleOptions{Name: "Sign in"}).Click(); err != nil {
		return "", fmt.Errorf("signing in: %w", err)
	}
	if err := page.Locator(`a:has-text("Reports")`).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(loginWait.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("login did not complete: %w", err)
	}

	// 2. Reports -> Custom Report
	if err := page.GetByRole("link", playwright.PageGetByRoleOptions{Name: "Reports"}).Click(); err != nil {
		return "", fmt.Errorf("opening reports: %w", err)
	}
	if err := page.GetByRole("tab", playwright.PageGetByRoleOptions{Name: "Custom Report"}).First().Click(); err != nil {
		return "", fmt.Errorf("opening custom report: %w", err)
	}

	// 3. date range
	if _, err := page.Evaluate(rangeScript, map[string]interface{}{
		"selector": rangeTextTarget,
		"text":     span.FilterText(),
	}); err != nil {
		return "", fmt.Errorf("setting report dates: %w", err)
	}

	// 4. enqueue the CSV
	if err := page.GetByRole("tabpanel").GetByRole("button", playwright.LocatorGetByRoleOptions{Name: "Download"}).Click(); err != nil {
		return "", fmt.Errorf("requesting report: %w", err)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(enqueueSettle):
	}

	// 5. newest CSV in the history table
	download, err := page.ExpectDownload(func() error {
		return page.GetByRole("row").
			Filter(playwright.LocatorFilterOptions{HasText: ".csv"}).
			First().
			GetByRole("button").
			Click()
	})
	if err != nil {
		return "", fmt.Errorf("downloading report: %w", err)
	}

	path, err := download.Path()
	if err != nil {
		return "", fmt.Errorf("locating download: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading download: %w", err)
	}
	return string(data), nil
}

const rangeScript = `({ selector, text }) => {
  const el = document.querySelector(selector);
  if (el) el.innerText = text;
}`
