package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/lottoledger/internal/app"
	"github.com/abrezinsky/lottoledger/internal/logger"
)

// listenForKeyboard reads single keys from a raw-mode terminal until ctx ends
// or the user quits. Without a terminal it returns immediately.
func listenForKeyboard(ctx context.Context, quit context.CancelFunc, a *app.App, appLog *logger.SlogLogger) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		var key byte
		select {
		case <-ctx.Done():
			return
		case k, ok := <-keys:
			if !ok {
				return
			}
			key = k
		}

		// raw mode turns off output processing, so lines end with \r\n
		switch strings.ToLower(string(key)) {
		case "b":
			printBalances(ctx, a)
		case "h":
			if appLog.IsHTTPLoggingEnabled() {
				appLog.DisableHTTPLogging()
				fmt.Printf("%sHTTP logging disabled%s\r\n", yellow, reset)
			} else {
				appLog.EnableHTTPLogging()
				fmt.Printf("%sHTTP logging enabled%s\r\n", green, reset)
			}
		case "l":
			cycleLogLevel(appLog)
		case "?":
			printKeyboardHelp()
		case "q", "\x03":
			fmt.Printf("%sShutting down server...%s\r\n", yellow, reset)
			quit()
			return
		}
	}
}

func printBalances(ctx context.Context, a *app.App) {
	snap, err := a.Balances(ctx)
	if err != nil {
		fmt.Printf("%sCould not read balances: %v%s\r\n", red, err, reset)
		return
	}
	for _, p := range snap.Pots {
		fmt.Printf("  %s%-16s%s %14s\r\n", cyan, p.Name, reset, p.Balance.StringFixed(2))
	}
	fmt.Printf("  %s%-16s%s %14s  (version %d)\r\n", bold, "total", reset, snap.Total.StringFixed(2), snap.Version)
}
