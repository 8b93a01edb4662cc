// Command taskctl is a developer CLI for the taskfence service. Its mint
// subcommand stands in for the external identity provider: it signs a
// short-lived token with the shared secret so the API can be exercised
// without a running provider.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ---- token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "taskfence")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "taskfence")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (mint one first)")
	}
	return tf.AccessToken, nil
}

// ---- http helpers ----

func call(method, addr, path, token string, body any) ([]byte, int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, strings.TrimRight(addr, "/")+path, rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	cli := &http.Client{Timeout: 10 * time.Second}
	resp, err := cli.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	return out, resp.StatusCode, err
}

func printJSON(b []byte) {
	var v any
	if json.Unmarshal(b, &v) == nil {
		pretty, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(pretty))
		return
	}
	fmt.Println(string(b))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// ---- subcommands ----

func cmdMint(args []string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	secret := fs.String("secret", os.Getenv("AUTH_SECRET"), "shared signing secret")
	sub := fs.String("sub", "dev-user", "subject id")
	email := fs.String("email", "dev@localhost", "email claim")
	ttl := fs.Duration("ttl", 15*time.Minute, "token lifetime")
	_ = fs.Parse(args)

	if *secret == "" {
		fail(errors.New("missing -secret (or AUTH_SECRET)"))
	}

	now := time.Now()
	exp := now.Add(*ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   *sub,
		"email": *email,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte(*secret))
	if err != nil {
		fail(err)
	}
	if err := saveToken(signed, exp); err != nil {
		fail(err)
	}
	fmt.Println(signed)
}

func cmdMe(addr string) {
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	out, _, err := call(http.MethodGet, addr, "/me", token, nil)
	if err != nil {
		fail(err)
	}
	printJSON(out)
}

func cmdList(addr string) {
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	out, _, err := call(http.MethodGet, addr, "/tasks/", token, nil)
	if err != nil {
		fail(err)
	}
	printJSON(out)
}

func cmdAdd(addr string, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "task title (required)")
	desc := fs.String("desc", "", "task description")
	_ = fs.Parse(args)

	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	out, code, err := call(http.MethodPost, addr, "/tasks/", token, map[string]string{
		"title": *title, "description": *desc,
	})
	if err != nil {
		fail(err)
	}
	if code != http.StatusCreated {
		fmt.Fprintln(os.Stderr, "status:", code)
	}
	printJSON(out)
}

func cmdDone(addr string, args []string) {
	if len(args) < 1 {
		fail(errors.New("usage: taskctl done <id>"))
	}
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	out, _, err := call(http.MethodPut, addr, "/tasks/"+args[0], token, map[string]bool{
		"is_completed": true,
	})
	if err != nil {
		fail(err)
	}
	printJSON(out)
}

func cmdRm(addr string, args []string) {
	if len(args) < 1 {
		fail(errors.New("usage: taskctl rm <id>"))
	}
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	_, code, err := call(http.MethodDelete, addr, "/tasks/"+args[0], token, nil)
	if err != nil {
		fail(err)
	}
	if code == http.StatusNoContent {
		fmt.Println("deleted")
		return
	}
	fmt.Fprintln(os.Stderr, "status:", code)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskctl <command> [flags]

commands:
  mint   sign a development token with the shared secret
  me     show the authenticated identity
  list   list tasks
  add    create a task (-title, -desc)
  done   mark a task completed
  rm     delete a task`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	addr := os.Getenv("TASKFENCE_ADDR")
	if addr == "" {
		addr = "http://127.0.0.1:8080"
	}

	switch os.Args[1] {
	case "mint":
		cmdMint(os.Args[2:])
	case "me":
		cmdMe(addr)
	case "list":
		cmdList(addr)
	case "add":
		cmdAdd(addr, os.Args[2:])
	case "done":
		cmdDone(addr, os.Args[2:])
	case "rm":
		cmdRm(addr, os.Args[2:])
	default:
		usage()
	}
}
