// Command resumator captures a LinkedIn profile as a structured record.
//
// Usage:
//
//	resumator https://www.linkedin.com/in/johndoe   # server-rendered page, LINKEDIN_* cookies
//	resumator -browser https://www.linkedin.com/in/johndoe
//	resumator -url https://www.linkedin.com/in/johndoe saved.html
//	resumator -show
//	resumator -discard
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/resumator/pkg/auth"
	"github.com/codeGROOVE-dev/resumator/pkg/browser"
	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/httpcache"
	"github.com/codeGROOVE-dev/resumator/pkg/linkedin"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"github.com/codeGROOVE-dev/resumator/pkg/relay"
	"github.com/codeGROOVE-dev/resumator/pkg/render"
	"github.com/codeGROOVE-dev/resumator/pkg/resumator"
	"github.com/codeGROOVE-dev/resumator/pkg/store"
	"github.com/joho/godotenv"
)

type flags struct {
	storeDir         string
	fileURL          string
	timeout          time.Duration
	cacheTTL         time.Duration
	verbose          bool
	useBrowser       bool
	headful          bool
	noBrowserCookies bool
	noCache          bool
	show             bool
	discard          bool
	jsonOut          bool
}

func main() {
	var f flags
	flag.BoolVar(&f.verbose, "v", false, "verbose logging")
	flag.BoolVar(&f.useBrowser, "browser", false, "scrape through a live Chrome instead of the server-rendered page")
	flag.BoolVar(&f.headful, "headful", false, "show the Chrome window (with -browser)")
	flag.BoolVar(&f.noBrowserCookies, "no-browser-cookies", false, "do not read LinkedIn cookies from local browser stores")
	flag.BoolVar(&f.noCache, "no-cache", false, "disable HTTP caching")
	flag.DurationVar(&f.cacheTTL, "cache-ttl", 24*time.Hour, "HTTP cache time-to-live")
	flag.StringVar(&f.storeDir, "store", store.DefaultDir(), "directory for saved records")
	flag.StringVar(&f.fileURL, "url", "", "profile URL to attribute to a local .html file")
	flag.DurationVar(&f.timeout, "timeout", 2*time.Minute, "overall time limit")
	flag.BoolVar(&f.show, "show", false, "print the saved record and exit")
	flag.BoolVar(&f.discard, "discard", false, "delete the saved record (for the given URL, or the latest) and exit")
	flag.BoolVar(&f.jsonOut, "json", false, "print the SAVE_PROFILE message as JSON instead of the review form")
	flag.Parse()

	logLevel := slog.LevelInfo
	if f.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	if !f.show && !f.discard && flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: resumator [options] <profile-url|file.html>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCookies are read from %s, a .env file, or local browsers.\n", strings.Join(auth.EnvVars(), ", "))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	err := run(ctx, logger, &f, flag.Arg(0))
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, f *flags, input string) error {
	st, err := store.Open(f.storeDir, store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	switch {
	case f.discard:
		return resumator.Discard(ctx, st, input)
	case f.show:
		rec, err := st.Latest(ctx)
		if input != "" {
			rec, err = st.Load(ctx, input)
		}
		if err != nil {
			return err
		}
		return output(f.jsonOut, relay.SaveProfile(rec))
	}

	page, closePage, err := openPage(ctx, logger, f, input)
	if err != nil {
		return err
	}
	defer closePage()

	ch := relay.NewChannel(relay.WithLogger(logger), relay.WithBuffer(1))
	defer ch.Close()
	msgs := ch.Subscribe()

	if _, err := resumator.Run(ctx, page,
		resumator.WithLogger(logger),
		resumator.WithStore(st),
		resumator.WithPublisher(ch),
	); err != nil {
		return err
	}
	return output(f.jsonOut, <-msgs)
}

// openPage picks the page source: a local file, a live browser, or a fetched
// server-rendered page.
func openPage(ctx context.Context, logger *slog.Logger, f *flags, input string) (dom.Page, func(), error) {
	if strings.HasSuffix(strings.ToLower(input), ".html") {
		b, err := os.ReadFile(input)
		if err != nil {
			return nil, nil, fmt.Errorf("read page: %w", err)
		}
		p, err := dom.NewStaticPageFromHTML(string(b), f.fileURL)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	}

	if f.useBrowser {
		if !profile.Match(input) {
			return nil, nil, fmt.Errorf("%w: %s", profile.ErrNotProfileURL, input)
		}
		cookies, err := linkedin.Cookies(ctx, logger, nil, !f.noBrowserCookies)
		if err != nil {
			return nil, nil, err
		}
		p, err := browser.New(ctx,
			browser.WithLogger(logger),
			browser.WithHeadless(!f.headful),
			browser.WithCookies(auth.HTTPCookies(auth.Domain, cookies)),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := p.Navigate(ctx, input); err != nil {
			p.Close()
			return nil, nil, err
		}
		return p, p.Close, nil
	}

	opts := []linkedin.ClientOption{linkedin.WithClientLogger(logger)}
	if !f.noBrowserCookies {
		opts = append(opts, linkedin.WithBrowserCookies())
	}
	closeCache := func() {}
	if !f.noCache {
		c, err := httpcache.New(f.cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			opts = append(opts, linkedin.WithHTTPCache(c))
			closeCache = func() {
				if err := c.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}
		}
	}

	client, err := linkedin.NewClient(ctx, opts...)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	p, err := client.Fetch(ctx, input)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return p, closeCache, nil
}

func output(jsonOut bool, msg relay.Message) error {
	if !jsonOut {
		return render.Render(os.Stdout, msg.Record)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(msg)
}
