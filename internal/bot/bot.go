package bot

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MyelinBots/statbot-go/config"
	"github.com/MyelinBots/statbot-go/internal/services/commands"
	"github.com/MyelinBots/statbot-go/internal/services/ingest"
	irc "github.com/fluffle/goirc/client"
	"go.uber.org/zap"
)

type Identified struct {
	sync.Mutex
	identified bool
}

// StartBot connects to IRC and feeds every channel message to the pipeline
// and the command controller. It returns when the connection drops or ctx
// is cancelled.
func StartBot(ctx context.Context, cfg config.IRCConfig, pipeline *ingest.Pipeline, deps commands.Deps, log *zap.Logger) error {
	identified := &Identified{}
	network := Network(cfg)
	ignore := make(map[string]bool, len(cfg.IgnoreNicks))
	for _, n := range cfg.IgnoreNicks {
		ignore[strings.ToLower(n)] = true
	}

	ircConfig := irc.NewConfig(cfg.Nick)
	ircConfig.SSL = cfg.SSL
	ircConfig.SSLConfig = &tls.Config{InsecureSkipVerify: true}
	ircConfig.Server = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn := irc.Client(ircConfig)

	controller := commands.NewCommandController(conn, network, cfg.Admins, deps, log)
	controller.RegisterDefaults()

	joinAll := func(conn *irc.Conn, line *irc.Line) {
		for _, channel := range cfg.Channels {
			conn.Join(channel)
		}
	}

	conn.HandleFunc(irc.CONNECTED, func(conn *irc.Conn, line *irc.Line) {
		log.Info("connected", zap.String("host", cfg.Host), zap.String("network", network))
		joinAll(conn, line)
	})
	conn.HandleFunc("422", joinAll)
	conn.HandleFunc("376", joinAll)

	conn.HandleFunc(irc.JOIN, func(conn *irc.Conn, line *irc.Line) {
		if len(line.Args) > 0 && strings.EqualFold(line.Nick, conn.Me().Nick) {
			log.Info("joined", zap.String("channel", line.Args[0]))
		}
		handleNickserv(cfg, identified, conn)
	})

	conn.HandleFunc(irc.INVITE, func(conn *irc.Conn, line *irc.Line) {
		if len(line.Args) < 2 {
			return
		}
		log.Info("invited", zap.String("channel", line.Args[1]), zap.String("by", line.Nick))
		conn.Join(line.Args[1])
	})

	conn.HandleFunc(irc.PRIVMSG, func(conn *irc.Conn, line *irc.Line) {
		if line == nil || len(line.Args) < 2 {
			return
		}

		ev := EventFromLine(network, conn.Me().Nick, ignore, line)
		go pipeline.Handle(ctx, ev)

		if err := controller.HandleCommand(ctx, line); err != nil {
			log.Warn("error handling command", zap.String("nick", line.Nick), zap.Error(err))
		}
	})

	quit := make(chan struct{}, 1)
	conn.HandleFunc(irc.DISCONNECTED, func(conn *irc.Conn, line *irc.Line) {
		if err := deps.Identity.MarkCommunityLeft(context.Background(), network, time.Now().UTC()); err != nil {
			log.Warn("failed to mark network left", zap.String("network", network), zap.Error(err))
		}
		select {
		case quit <- struct{}{}:
		default:
		}
	})

	if err := conn.Connect(); err != nil {
		log.Error("connection error", zap.String("server", ircConfig.Server), zap.Error(err))
		return err
	}

	select {
	case <-quit:
	case <-ctx.Done():
		conn.Quit("statbot shutting down")
		select {
		case <-quit:
		case <-time.After(5 * time.Second):
		}
	}
	return nil
}

// Network is the community id for this connection: the configured network
// name, falling back to the server host.
func Network(cfg config.IRCConfig) string {
	if n := strings.TrimSpace(cfg.Network); n != "" {
		return strings.ToLower(n)
	}
	return strings.ToLower(cfg.Host)
}

// EventFromLine maps a PRIVMSG to an ingest event. Nicks are the user id on
// IRC, so they are lowercased.
func EventFromLine(network, ownNick string, ignore map[string]bool, line *irc.Line) ingest.Event {
	nick := strings.ToLower(line.Nick)
	public := len(line.Args) > 0 && line.Public()

	ev := ingest.Event{
		ExternalUserID:      nick,
		Username:            line.Nick,
		Discriminator:       line.Ident,
		ExternalCommunityID: network,
		CommunityName:       network,
		IsBot:               ignore[nick] || strings.EqualFold(line.Nick, ownNick),
		IsPrivate:           !public,
		Timestamp:           line.Time,
	}
	if public {
		ev.ExternalChannelID = strings.ToLower(line.Args[0])
	}
	return ev
}

func handleNickserv(cfg config.IRCConfig, identified *Identified, c *irc.Conn) {
	identified.Lock()
	defer identified.Unlock()
	if !identified.identified && cfg.NickservPassword != "" {
		command := fmt.Sprintf(cfg.NickservCommand, cfg.NickservPassword)
		c.Raw(command)
		identified.identified = true
	}
}
