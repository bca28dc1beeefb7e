package cmd

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leftmike/tinydb/engine"
	"github.com/leftmike/tinydb/repl"
	"github.com/leftmike/tinydb/server"
)

var (
	startCmd = &cobra.Command{
		Use:   "start [file ...]",
		Short: "Serve the tables over PostgreSQL wire protocol v3 and optionally SSH",
		RunE:  startRun,
	}

	proto3Host     = "localhost"
	proto3Port     = "5432"
	sshEnabled     = false
	sshAddr        = "localhost:8241"
	authorizedKeys = ""
	hostKeys       = []string{"id_rsa"}

	sqlArgs = []string{}
)

// initServerFlags adds the flags used by every command which creates a server.
func initServerFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&sqlArgs, "sql", sqlArgs, "sql `statement` to execute; multiple allowed")
}

func init() {
	fs := startCmd.Flags()
	initServerFlags(fs)

	fs.StringVar(&proto3Host, "host", proto3Host,
		"`host` used to serve PostgreSQL wire protocol v3")
	fs.StringVarP(&proto3Port, "port", "p", proto3Port,
		"`port` used to serve PostgreSQL wire protocol v3")
	fs.BoolVar(&sshEnabled, "ssh", sshEnabled, "serve ssh sessions")
	fs.StringVar(&sshAddr, "ssh-port", sshAddr, "`address` used to serve ssh")
	fs.StringVar(&authorizedKeys, "ssh-authorized-keys", authorizedKeys,
		"`file` containing authorized ssh keys")
	fs.StringSliceVar(&hostKeys, "ssh-host-key", hostKeys,
		"`file` containing a ssh host key; multiple allowed")
	configFlags(fs, "host", "port", "ssh", "ssh-port", "ssh-authorized-keys", "ssh-host-key")

	cfgVars["accounts"] = nil

	tinydbCmd.AddCommand(startCmd)
}

func handleSession(ses *server.Session, lr server.LineReader, w io.Writer) {
	repl.Run(ses.Engine, lr, w)
}

// newServer creates the shared engine, then runs each --sql statement and each file of
// statements against it, writing the results to w.
func newServer(args []string, w io.Writer) (*server.Server, error) {
	svr := &server.Server{
		Engine:  engine.NewEngine(flgs),
		Handler: handleSession,
	}

	for idx, arg := range sqlArgs {
		svr.Handle(repl.NewScanner(strings.NewReader(arg)), w, "startup", "sql-arg",
			strconv.Itoa(idx))
	}

	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("tinydb: sql file: %s", err)
		}
		svr.Handle(repl.NewScanner(f), w, "startup", "sql-file", arg)
		f.Close()
	}

	return svr, nil
}

func readSSHConfig() (server.SSHConfig, error) {
	sshCfg := server.SSHConfig{
		Address:       sshAddr,
		CheckPassword: checkPassword(userAccounts()),
	}

	for _, hostKey := range hostKeys {
		b, err := ioutil.ReadFile(hostKey)
		if err != nil {
			return sshCfg, fmt.Errorf("tinydb: ssh host key: %s", err)
		}
		sshCfg.HostKeysBytes = append(sshCfg.HostKeysBytes, b)
	}

	if authorizedKeys != "" {
		b, err := ioutil.ReadFile(authorizedKeys)
		if err != nil {
			return sshCfg, fmt.Errorf("tinydb: ssh authorized keys: %s", err)
		}
		sshCfg.AuthorizedBytes = b
	}

	return sshCfg, nil
}

func startRun(cmd *cobra.Command, args []string) error {
	var sshCfg server.SSHConfig
	if sshEnabled {
		var err error
		sshCfg, err = readSSHConfig()
		if err != nil {
			return err
		}
	}

	svr, err := newServer(args, os.Stdout)
	if err != nil {
		return err
	}

	serve := func(name string, listenAndServe func() error) {
		err := listenAndServe()
		if err != server.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "tinydb: %s: %s\n", name, err)
		}
	}

	go serve("proto3",
		func() error {
			return svr.ListenAndServeProto3(
				server.Proto3Config{Address: net.JoinHostPort(proto3Host, proto3Port)})
		})
	if sshEnabled {
		go serve("ssh",
			func() error {
				return svr.ListenAndServeSSH(sshCfg)
			})
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)

	fmt.Println("tinydb: waiting for ^C to shutdown")
	<-ch
	go func() {
		<-ch
		os.Exit(0)
	}()

	fmt.Println("tinydb: shutting down")
	return svr.Shutdown(context.Background())
}
