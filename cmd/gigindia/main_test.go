package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseAttrs(t *testing.T) {
	data, err := parseAttrs([]string{"company_name=Acme Ltd", "city = Pune", "note=a=b"})
	if err != nil {
		t.Fatalf("parseAttrs returned error: %v", err)
	}
	if data["company_name"] != "Acme Ltd" || data["city"] != " Pune" || data["note"] != "a=b" {
		t.Fatalf("unexpected data: %v", data)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseAttrs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestSessionMintAndVerify(t *testing.T) {
	t.Setenv("SESSION_SECRET", "cli-secret")

	var out bytes.Buffer
	mint := sessionCmd()
	mint.SetOut(&out)
	mint.SetArgs([]string{"mint", "--id", "u-1", "--email", "a@example.com", "--name", "A", "--role", "admin"})
	if err := mint.Execute(); err != nil {
		t.Fatalf("mint: %v", err)
	}
	token := strings.TrimSpace(out.String())
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a token, got %q", token)
	}

	out.Reset()
	verify := sessionCmd()
	verify.SetOut(&out)
	verify.SetArgs([]string{"verify", token})
	if err := verify.Execute(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out.String(), `"role": "admin"`) {
		t.Fatalf("expected payload in output, got %s", out.String())
	}
}

func TestSessionVerify_Rejects(t *testing.T) {
	t.Setenv("SESSION_SECRET", "cli-secret")

	cmd := sessionCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"verify", "not-a-token"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Fatalf("expected malformed rejection, got %v", err)
	}
}

func TestSessionMint_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	cmd := sessionCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"mint", "--id", "u-1", "--email", "a@example.com", "--name", "A"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without a secret")
	}
}
