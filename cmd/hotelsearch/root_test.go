package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotel_attractions/internal/shared"
)

const hotelsJSON = `{"sr":[
  {"f":"Hotel Nikko","id":"10323","ad":"222 Mason St","ci":"San Francisco","pr":"CA","ll":{"lat":"37.78569","lng":"-122.40963"}},
  {"f":"Quiet Inn","id":"9","ad":"1 Elm","ci":"Palo Alto","pr":"CA","ll":{"lat":"37.4","lng":"-122.1"}}
]}`

func fixture(t *testing.T) (shared.Config, string) {
	t.Helper()
	dir := t.TempDir()
	html := filepath.Join(dir, "html")
	if err := os.Mkdir(html, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hotels.json"), []byte(hotelsJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	page := `About this property<h4>Nikko</h4><p>Japanese style.</p>About this area<h4>Union Square</h4><p>Shops.</p>`
	if err := os.WriteFile(filepath.Join(html, "h10323.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return shared.Config{HotelsFile: "unused.json", HTMLDir: "unused", RadiusMiles: 2, Workers: 1}, dir
}

func TestRootCmd_WritesOutputFiles(t *testing.T) {
	cfg, dir := fixture(t)
	hotelsOut := filepath.Join(dir, "hotels.txt")
	descOut := filepath.Join(dir, "descriptions.txt")

	cmd := newRootCmd(cfg)
	cmd.SetArgs([]string{
		"--hotels", filepath.Join(dir, "hotels.json"),
		"--html", filepath.Join(dir, "html"),
		"--output", hotelsOut,
		"--descriptions-output", descOut,
	})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	b, err := os.ReadFile(hotelsOut)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	stars := strings.Repeat("*", 20)
	want := "\n" + stars + "\nQuiet Inn: 9\n1 Elm\nPalo Alto, CA\n" +
		"\n" + stars + "\nHotel Nikko: 10323\n222 Mason St\nSan Francisco, CA\n"
	if string(b) != want {
		t.Fatalf("hotels output:\n%q", b)
	}

	b, err = os.ReadFile(descOut)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "10323\nNikko\nJapanese style.\n\nUnion Square\nShops.\n"+strings.Repeat("+", 20)+"\n" {
		t.Fatalf("descriptions output:\n%q", b)
	}
}

func TestRootCmd_Interactive(t *testing.T) {
	cfg, dir := fixture(t)
	cmd := newRootCmd(cfg)
	cmd.SetArgs([]string{
		"--hotels", filepath.Join(dir, "hotels.json"),
		"--html", filepath.Join(dir, "html"),
		"--interactive",
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("find 9\nfindAttraction 10323\nbogus\nfind abc\n\nfindDescriptions 9\nEXIT\nfind 10323\n"))
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Hotel details of hotelId -- 9\nHotelName=Quiet Inn\n",
		"No tourist attractions found for hotel: 10323\n",
		"usage: find <hotelId>",
		`invalid hotel id: "abc"`,
		"No descriptions found for hotel: 9\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "HotelName=Hotel Nikko") {
		t.Fatalf("commands after exit must not run:\n%s", got)
	}
	if n := strings.Count(got, prompt); n != 7 {
		t.Fatalf("prompts: %d", n)
	}
}

func TestRootCmd_MissingHotelsFile(t *testing.T) {
	cfg, dir := fixture(t)
	cmd := newRootCmd(cfg)
	cmd.SetArgs([]string{"--hotels", filepath.Join(dir, "nope.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
