package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/spf13/pflag"

	"github.com/leftmike/tinydb/flags"
)

var (
	// cfgVars maps config file names to the flags they set; a nil flag is a config variable
	// that is read directly from cfg, such as accounts.
	cfgVars = map[string]*pflag.Flag{}
	cfg     = map[string]interface{}{}
)

// configFlags makes each named flag in fs settable from the config file under the same name.
func configFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		flg := fs.Lookup(name)
		if flg == nil {
			panic(fmt.Sprintf("config flag %s not defined", name))
		}
		cfgVars[name] = flg
	}
}

// loadConfig applies the config file to every config variable not set by a flag. A missing
// config file is not an error.
func loadConfig(file string) error {
	b, err := ioutil.ReadFile(file)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	return applyConfig(b)
}

func applyConfig(b []byte) error {
	err := hcl.Decode(&cfg, string(b))
	if err != nil {
		return err
	}

	for name, val := range cfg {
		err = setConfig(name, val)
		if err != nil {
			return err
		}
	}
	return nil
}

func setConfig(name string, val interface{}) error {
	if flg, ok := cfgVars[name]; ok {
		if flg == nil {
			return nil
		}
		if _, ok := usedFlags[flg.Name]; ok {
			return nil
		}
		err := flg.Value.Set(configValue(val))
		if err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
		return nil
	}

	f, ok := flags.LookupFlag(name)
	if !ok {
		return fmt.Errorf("%s is not a config variable", name)
	}
	bv, ok := val.(bool)
	if !ok {
		return fmt.Errorf("%s: expected boolean value; got %v", name, val)
	}
	flgs.SetFlag(f, bv)
	return nil
}

// configValue formats val the way the flag would be given on the command line; a list
// becomes comma separated values.
func configValue(val interface{}) string {
	if l, ok := val.([]interface{}); ok {
		vals := make([]string, 0, len(l))
		for _, v := range l {
			vals = append(vals, fmt.Sprintf("%v", v))
		}
		return strings.Join(vals, ",")
	}
	return fmt.Sprintf("%v", val)
}

// userAccounts returns the accounts from the config file, given either as a list,
// accounts = [{user = "u", password = "p"}], or as repeated accounts blocks.
func userAccounts() map[string]string {
	var accounts []map[string]interface{}
	switch val := cfg["accounts"].(type) {
	case []map[string]interface{}:
		accounts = val
	case []interface{}:
		for _, obj := range val {
			account, ok := obj.(map[string]interface{})
			if !ok {
				return nil
			}
			accounts = append(accounts, account)
		}
	default:
		return nil
	}

	userPasswords := map[string]string{}
	for _, account := range accounts {
		user, ok := account["user"].(string)
		if !ok {
			return nil
		}
		password, ok := account["password"].(string)
		if !ok {
			return nil
		}
		userPasswords[user] = password
	}
	return userPasswords
}

// checkPassword returns nil if there are no accounts, in which case passwords are not used.
func checkPassword(accounts map[string]string) func(user, password string) error {
	if len(accounts) == 0 {
		return nil
	}

	return func(user, password string) error {
		pw, ok := accounts[user]
		if !ok {
			return fmt.Errorf("user %s not found", user)
		} else if password != pw {
			return fmt.Errorf("bad password for user %s", user)
		}
		return nil
	}
}
