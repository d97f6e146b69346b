package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config of the account used to notify new routes
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func (c Config) Enabled() bool {
	return len(c.Jid) > 0 && len(c.Password) > 0 && len(c.To) > 0
}

func serverName(jid string) (string, error) {
	i := strings.LastIndex(jid, "@")
	if i < 0 || i == len(jid)-1 {
		return "", fmt.Errorf("invalid jid '%s'", jid)
	}
	return jid[i+1:], nil
}

// hostname strips the port of host
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Send sends message to the configured recipient
func (x Xmpp) Send(message string) error {

	if !x.Config.Enabled() {
		return ErrMissingConfig
	}

	host := x.Config.Host
	if len(host) == 0 {
		h, err := serverName(x.Config.Jid)
		if err != nil {
			return err
		}
		host = h
	}

	// own config per connection, xmpp.DefaultConfig is shared by every client
	tlsConfig := &tls.Config{
		ServerName:         hostname(host),
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          host,
		TLSConfig:     tlsConfig,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Watching new rides",
	}

	log.Debugf("Connect to xmpp server '%s' as '%s'", host, x.Config.Jid)
	talk, err := options.NewClient()
	if err != nil {
		return fmt.Errorf("connect xmpp '%s': %w", host, err)
	}
	defer talk.Close()

	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		return fmt.Errorf("send xmpp message: %w", err)
	}

	return nil
}
