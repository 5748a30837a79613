package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"hotel_attractions/internal/app"
)

const prompt = "Enter one of following commands: find <hotelId> or findAttraction <hotelId> or findDescriptions <hotelId> or exit"

// repl answers one command per line until exit, EOF or ctx cancellation.
// Bad input prints a diagnostic and the loop carries on.
func repl(ctx context.Context, q *app.LookupService, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, prompt)
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "exit") {
			return nil
		}
		if line == "" {
			continue
		}
		res, err := q.Dispatch(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, res)
	}
}
