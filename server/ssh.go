package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/leftmike/tinydb/sql"
)

type SSHConfig struct {
	Address         string
	HostKeysBytes   [][]byte
	AuthorizedBytes []byte
	CheckPassword   func(user, password string) error
}

// authorizedKeys is the set of marshaled public keys allowed to connect.
type authorizedKeys map[string]struct{}

func parseAuthorizedKeys(b []byte) (authorizedKeys, error) {
	keys := authorizedKeys{}
	for len(b) > 0 {
		key, _, _, rest, err := ssh.ParseAuthorizedKey(b)
		if err != nil {
			return nil, err
		}
		keys[string(key.Marshal())] = struct{}{}
		b = rest
	}
	return keys, nil
}

func (keys authorizedKeys) check(md ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions,
	error) {

	log.WithFields(log.Fields{
		"user":        md.User(),
		"addr":        md.RemoteAddr().String(),
		"fingerprint": ssh.FingerprintSHA256(key),
	}).Debug("ssh public key")
	if _, ok := keys[string(key.Marshal())]; !ok {
		return nil, fmt.Errorf("server: ssh: unknown public key for %s", md.User())
	}
	return nil, nil
}

func logSSHAuth(md ssh.ConnMetadata, method string, err error) {
	if method == "none" {
		return
	}

	entry := log.WithFields(log.Fields{
		"user":   md.User(),
		"addr":   md.RemoteAddr().String(),
		"method": method,
	})
	if err != nil {
		entry.WithField("error", err.Error()).Warn("ssh authentication failed")
	} else {
		entry.Info("ssh authenticated")
	}
}

// makeSSHConfig allows any client when neither passwords nor authorized keys are configured.
func makeSSHConfig(sshCfg SSHConfig) (*ssh.ServerConfig, error) {
	if len(sshCfg.HostKeysBytes) == 0 {
		return nil, fmt.Errorf("server: ssh: no host keys")
	}

	cfg := &ssh.ServerConfig{
		AuthLogCallback: logSSHAuth,
		BannerCallback: func(md ssh.ConnMetadata) string {
			return sql.Version() + "\n"
		},
	}
	for _, b := range sshCfg.HostKeysBytes {
		key, err := ssh.ParsePrivateKey(b)
		if err != nil {
			return nil, fmt.Errorf("server: ssh host key: %s", err)
		}
		cfg.AddHostKey(key)
	}

	keys, err := parseAuthorizedKeys(sshCfg.AuthorizedBytes)
	if err != nil {
		return nil, fmt.Errorf("server: ssh authorized keys: %s", err)
	}
	if len(keys) > 0 {
		cfg.PublicKeyCallback = keys.check
	}

	if checkPassword := sshCfg.CheckPassword; checkPassword != nil {
		cfg.PasswordCallback =
			func(md ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
				return nil, checkPassword(md.User(), string(pass))
			}
	}

	cfg.NoClientAuth = cfg.PublicKeyCallback == nil && cfg.PasswordCallback == nil
	log.WithFields(log.Fields{
		"password":   cfg.PasswordCallback != nil,
		"public-key": cfg.PublicKeyCallback != nil,
	}).Info("ssh client auth")
	return cfg, nil
}

// ListenAndServeSSH serves sessions over SSH. A shell request runs an interactive terminal
// session; an exec request runs the lines of its command as statements. It returns
// ErrServerClosed after Close or Shutdown.
func (svr *Server) ListenAndServeSSH(sshCfg SSHConfig) error {
	cfg, err := makeSSHConfig(sshCfg)
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", sshCfg.Address)
	if err != nil {
		return err
	}
	return svr.serve(l, "ssh",
		func(conn net.Conn, entry *log.Entry) {
			svr.handleSSHConn(conn, cfg, entry)
		})
}

func (svr *Server) handleSSHConn(tcp net.Conn, cfg *ssh.ServerConfig, entry *log.Entry) {
	conn, chans, reqs, err := ssh.NewServerConn(tcp, cfg)
	if err != nil {
		entry.WithField("error", err.Error()).Error("ssh handshake")
		return
	}
	defer conn.Close()

	entry = entry.WithField("user", conn.User())
	go ssh.DiscardRequests(reqs)

	var wg sync.WaitGroup
	for nch := range chans {
		if typ := nch.ChannelType(); typ != "session" {
			nch.Reject(ssh.UnknownChannelType, typ)
			entry.WithField("channel-type", typ).Warn("ssh channel rejected")
			continue
		}

		wg.Add(1)
		go func(nch ssh.NewChannel) {
			defer wg.Done()
			svr.handleSSHChannel(conn, nch, entry)
		}(nch)
	}
	wg.Wait()
}

// execRequest is the payload of an exec channel request.
type execRequest struct {
	Command string
}

type exitStatus struct {
	Status uint32
}

// sshRequests replies to the requests on a session channel. The first shell or exec request
// is sent on start; a shell request sends nil. start is closed if neither arrives.
func sshRequests(reqs <-chan *ssh.Request, start chan<- *execRequest, entry *log.Entry) {
	started := false
	for req := range reqs {
		var ok bool
		var er *execRequest

		switch req.Type {
		case "pty-req", "env", "window-change":
			ok = true
		case "shell":
			ok = !started
		case "exec":
			er = &execRequest{}
			ok = !started && ssh.Unmarshal(req.Payload, er) == nil
		}

		entry.WithFields(log.Fields{
			"request-type": req.Type,
			"ok":           ok,
		}).Debug("ssh channel request")
		if req.WantReply {
			req.Reply(ok, nil)
		}
		if ok && (req.Type == "shell" || req.Type == "exec") {
			started = true
			start <- er
		}
	}

	if !started {
		close(start)
	}
}

func (svr *Server) handleSSHChannel(conn *ssh.ServerConn, nch ssh.NewChannel,
	entry *log.Entry) {

	ch, reqs, err := nch.Accept()
	if err != nil {
		entry.WithField("error", err.Error()).Error("ssh channel accept")
		return
	}
	defer ch.Close()

	start := make(chan *execRequest, 1)
	go sshRequests(reqs, start, entry)

	er, ok := <-start
	if !ok {
		return
	}

	user := conn.User()
	addr := conn.RemoteAddr().String()
	if er == nil {
		t := terminal.NewTerminal(ch, "tinydb> ")
		svr.Handle(t, t, user, "ssh", addr)
		return
	}

	svr.Handle(scanLines{bufio.NewScanner(strings.NewReader(er.Command))}, ch, user,
		"ssh-exec", addr)
	_, err = ch.SendRequest("exit-status", false, ssh.Marshal(exitStatus{}))
	if err != nil {
		entry.WithField("error", err.Error()).Error("ssh exit status")
	}
}

type scanLines struct {
	sc *bufio.Scanner
}

func (sl scanLines) ReadLine() (string, error) {
	if !sl.sc.Scan() {
		if err := sl.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sl.sc.Text(), nil
}
