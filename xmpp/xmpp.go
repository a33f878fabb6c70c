package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config of the notification account.
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

func serverName(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

// Enabled reports whether the account and recipient are configured.
func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

// Send opens a session and sends message as a chat to the recipient.
func (x Xmpp) Send(message string) error {

	if !x.Enabled() {
		log.Debug("missing xmpp config")

		return ErrMissingConfig
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          x.Config.Host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Regatta route planner",
	}

	log.Debugf("create xmpp client for %s on %s", x.Config.Jid, x.Config.Host)
	talk, err := options.NewClient()

	if err != nil {
		log.Warn(err.Error())

		return err
	}
	defer talk.Close()

	log.Debugf("send message to %s", x.Config.To)
	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})
	return err
}
