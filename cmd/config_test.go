package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/leftmike/tinydb/flags"
)

func resetConfig() {
	cfg = map[string]interface{}{}
	flgs = flags.Default()
	usedFlags = map[string]struct{}{}
	logLevel = "info"
	proto3Port = "5432"
	sshEnabled = false
	hostKeys = nil
	sqlArgs = []string{}
}

func TestApplyConfig(t *testing.T) {
	defer resetConfig()

	cases := []struct {
		config string
		fail   bool
		check  func() bool
	}{
		{
			config: `log-level = "debug"`,
			check:  func() bool { return logLevel == "debug" },
		},
		{
			config: `port = 5433`,
			check:  func() bool { return proto3Port == "5433" },
		},
		{
			config: `strict_clauses = false`,
			check:  func() bool { return !flgs.GetFlag(flags.StrictClauses) },
		},
		{config: `strict_clauses = "no"`, fail: true},
		{config: `bogus = 1`, fail: true},
		{
			config: `ssh = true`,
			check:  func() bool { return sshEnabled },
		},
		{
			config: `ssh-host-key = "host.key"`,
			check:  func() bool { return reflect.DeepEqual(hostKeys, []string{"host.key"}) },
		},
		{
			config: `ssh-host-key = ["a.key", "b.key"]`,
			check: func() bool {
				return reflect.DeepEqual(hostKeys, []string{"a.key", "b.key"})
			},
		},
		{config: `ssh-host-keys = "host.key"`, fail: true},
		{config: `log-level = = "debug"`, fail: true},
		{config: `log-level`, fail: true},
	}

	for _, c := range cases {
		resetConfig()

		err := applyConfig([]byte(c.config))
		if c.fail {
			if err == nil {
				t.Errorf("applyConfig(%q) did not fail", c.config)
			}
		} else if err != nil {
			t.Errorf("applyConfig(%q) failed with %s", c.config, err)
		} else if !c.check() {
			t.Errorf("applyConfig(%q) did not set the config variable", c.config)
		}
	}
}

func TestConfigUsedFlag(t *testing.T) {
	defer resetConfig()
	resetConfig()

	logLevel = "warn"
	usedFlags["log-level"] = struct{}{}
	err := applyConfig([]byte(`log-level = "debug"`))
	if err != nil {
		t.Fatalf("applyConfig() failed with %s", err)
	}
	if logLevel != "warn" {
		t.Errorf("applyConfig() overrode a flag: got %s want warn", logLevel)
	}
}

func TestUserAccounts(t *testing.T) {
	defer resetConfig()

	want := map[string]string{"alice": "secret", "bob": "hunter2"}
	configs := []string{
		`accounts = [{user = "alice", password = "secret"}, {user = "bob", password = "hunter2"}]`,
		`accounts = [
	{
		user = "alice"
		password = "secret"
	},
	{
		user = "bob"
		password = "hunter2"
	},
]`,
	}

	for _, config := range configs {
		resetConfig()

		err := applyConfig([]byte(config))
		if err != nil {
			t.Errorf("applyConfig(%q) failed with %s", config, err)
			continue
		}
		accounts := userAccounts()
		if !reflect.DeepEqual(accounts, want) {
			t.Errorf("userAccounts(%q) got %v want %v", config, accounts, want)
		}
	}

	resetConfig()
	if accounts := userAccounts(); accounts != nil {
		t.Errorf("userAccounts() with no config got %v want nil", accounts)
	}
}

func TestConfigValue(t *testing.T) {
	cases := []struct {
		val  interface{}
		want string
	}{
		{"debug", "debug"},
		{5433, "5433"},
		{true, "true"},
		{[]interface{}{"a.key", "b.key"}, "a.key,b.key"},
		{[]interface{}{}, ""},
	}

	for _, c := range cases {
		got := configValue(c.val)
		if got != c.want {
			t.Errorf("configValue(%#v) got %q want %q", c.val, got, c.want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	if checkPassword(nil) != nil {
		t.Errorf("checkPassword(nil) did not return nil")
	}

	check := checkPassword(map[string]string{"alice": "secret"})
	cases := []struct {
		user, password string
		fail           bool
	}{
		{"alice", "secret", false},
		{"alice", "wrong", true},
		{"bob", "secret", true},
	}

	for _, c := range cases {
		err := check(c.user, c.password)
		if c.fail && err == nil {
			t.Errorf("checkPassword(%s, %s) did not fail", c.user, c.password)
		} else if !c.fail && err != nil {
			t.Errorf("checkPassword(%s, %s) failed with %s", c.user, c.password, err)
		}
	}
}

func TestNewServer(t *testing.T) {
	defer resetConfig()
	resetConfig()

	dir, err := ioutil.TempDir("", "tinydb")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "startup.sql")
	err = ioutil.WriteFile(file, []byte("insert into t (a) values (2)\ndelete from t where a = 1\n"),
		0644)
	if err != nil {
		t.Fatal(err)
	}

	sqlArgs = []string{"create table t (a int)", "insert into t (a) values (1)"}
	var b bytes.Buffer
	svr, err := newServer([]string{file}, &b)
	if err != nil {
		t.Fatalf("newServer() failed with %s", err)
	}

	want := "CREATE TABLE\n1 rows updated\n1 rows updated\n1 rows updated\n"
	if b.String() != want {
		t.Errorf("newServer() got %q want %q", b.String(), want)
	}
	tables := svr.Engine.Tables()
	if len(tables) != 1 || tables[0].Rows != 1 {
		t.Errorf("Tables() got %v want t with 1 row", tables)
	}

	_, err = newServer([]string{filepath.Join(dir, "missing.sql")}, &b)
	if err == nil {
		t.Errorf("newServer(missing.sql) did not fail")
	}
}
