package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLinkState(t *testing.T) {
	if got := linkState("formulas", "formulas"); got != "active" {
		t.Fatalf("expected active state when sections match, got %q", got)
	}
	if got := linkState("import", "formulas"); got != "inactive" {
		t.Fatalf("expected inactive state when sections differ, got %q", got)
	}
}

func TestStatCardRendersValues(t *testing.T) {
	var buf bytes.Buffer
	err := StatCard("Hydration", "72.0%", "incl. preferments").Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render stat card: %v", err)
	}
	output := buf.String()
	for _, token := range []string{"Hydration", "72.0%", "incl. preferments"} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected output to contain %q: %s", token, output)
		}
	}
}

func TestStatCardOmitsEmptyDetail(t *testing.T) {
	var buf bytes.Buffer
	if err := StatCard("Flour", "1000 g", "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render stat card: %v", err)
	}
	if strings.Contains(buf.String(), "<small>") {
		t.Fatalf("expected no detail element: %s", buf.String())
	}
}

func TestNavRendersActiveSection(t *testing.T) {
	links := []NavLink{
		{Label: "Formulas", Path: "/app", Section: "formulas"},
		{Label: "Sign out", Path: "/logout", Section: "logout"},
	}
	var buf bytes.Buffer
	if err := Nav("formulas", links).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render nav: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `data-nav-section="formulas" data-state="active"`) {
		t.Fatalf("expected active data-state attribute for formulas link: %s", out)
	}
	if !strings.Contains(out, `data-nav-section="logout" data-state="inactive"`) {
		t.Fatalf("expected inactive data-state for logout link: %s", out)
	}
}
