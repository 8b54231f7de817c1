package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jroosing/fireportal/internal/contentid"
	"github.com/jroosing/fireportal/internal/resolver"
)

func main() {
	var (
		name      = flag.String("name", "", "Handshake domain to resolve")
		method    = flag.String("method", resolver.MethodDoH, "Resolution method (doh, dot, local)")
		dohURL    = flag.String("doh-url", "https://hnsdoh.com/dns-query", "DNS-over-HTTPS endpoint")
		dotHost   = flag.String("dot-host", "hnsdoh.com", "DNS-over-TLS host")
		dotPort   = flag.Int("dot-port", 853, "DNS-over-TLS port")
		localHost = flag.String("local-host", "127.0.0.1", "Local resolver host")
		localPort = flag.Int("local-port", 53, "Local resolver port")
		gateway   = flag.String("gateway", "https://ipfs.io", "IPFS gateway used to print the content URL")
		timeout   = flag.Duration("timeout", 5*time.Second, "Timeout")
		verbose   = flag.Bool("v", false, "Log resolver fallbacks to stderr")
		quiet     = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	if *name == "" && flag.NArg() > 0 {
		*name = flag.Arg(0)
	}
	domain, err := resolver.CheckDomain(*name)
	if err != nil {
		fail(*quiet, err)
	}

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	lookup, effective := resolver.NewLookup(resolver.Options{
		Method:    *method,
		DoHURL:    *dohURL,
		DoTHost:   *dotHost,
		DoTPort:   *dotPort,
		LocalHost: *localHost,
		LocalPort: *localPort,
		Timeout:   *timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2**timeout)
	defer cancel()

	records, err := lookup.LookupTXT(ctx, domain)
	if err != nil {
		fail(*quiet, err)
	}
	id, ok := contentid.Extract(records)
	if *quiet {
		if !ok {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("domain=%s method=%s records=%d\n", domain, effective, len(records))
	for _, r := range records {
		fmt.Printf("TXT %q\n", r)
	}
	if !ok {
		fmt.Println("no IPFS record")
		os.Exit(1)
	}
	fmt.Printf("content=%s mutable=%t\n", id, id.IsMutable())
	fmt.Printf("url=%s%s/\n", strings.TrimSuffix(*gateway, "/"), id)
}

func fail(quiet bool, err error) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "hnsquery error: %v\n", err)
	}
	os.Exit(1)
}
