// Package ingest turns chat activity into counter increments.
package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/services/cooldown"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/stats"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrInvalidEvent = errors.New("ingest: invalid event")

// Event is one message observed on the platform.
type Event struct {
	ExternalUserID string `validate:"required,max=64"`
	Username       string `validate:"required,max=100"`
	Discriminator  string `validate:"max=100"`
	AvatarURL      string `validate:"omitempty,max=500"`

	ExternalCommunityID string `validate:"required,max=64"`
	CommunityName       string `validate:"required,max=100"`
	CommunityIcon       string `validate:"omitempty,max=500"`

	// ExternalChannelID is optional. ChannelCommunityID names the community
	// the channel belongs to; empty means the event's own community.
	ExternalChannelID  string `validate:"omitempty,max=100"`
	ChannelCommunityID string `validate:"omitempty,max=64"`

	IsBot     bool
	IsWebhook bool
	IsPrivate bool
	Timestamp time.Time
}

// Result says how far an event got.
type Result int

const (
	Counted Result = iota
	Untracked
	CoolingDown
	TrackingDisabled
)

type Pipeline struct {
	gate         *cooldown.Gate
	identity     identity.Resolver
	store        *stats.Store
	validate     *validator.Validate
	xpPerMessage int64
	now          func() time.Time
	log          *zap.Logger
}

func NewPipeline(gate *cooldown.Gate, resolver identity.Resolver, store *stats.Store, xpPerMessage int, log *zap.Logger) *Pipeline {
	if xpPerMessage < 0 {
		xpPerMessage = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		gate:         gate,
		identity:     resolver,
		store:        store,
		validate:     validator.New(),
		xpPerMessage: int64(xpPerMessage),
		now:          time.Now,
		log:          log,
	}
}

// Trackable filters events that never consume a cooldown slot.
func (e Event) Trackable() bool {
	return !e.IsBot && !e.IsWebhook && !e.IsPrivate && strings.TrimSpace(e.ExternalCommunityID) != ""
}

// Handle processes an event and only logs failures, so one bad event never
// reaches the caller. Panics are recovered and logged as well.
func (p *Pipeline) Handle(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("xp ingest panicked",
				zap.String("user", ev.ExternalUserID),
				zap.String("community", ev.ExternalCommunityID),
				zap.String("channel", ev.ExternalChannelID),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if _, err := p.Process(ctx, ev); err != nil {
		p.log.Error("xp ingest failed",
			zap.String("user", ev.ExternalUserID),
			zap.String("community", ev.ExternalCommunityID),
			zap.String("channel", ev.ExternalChannelID),
			zap.Error(err))
	}
}

func (p *Pipeline) Process(ctx context.Context, ev Event) (Result, error) {
	if !ev.Trackable() {
		return Untracked, nil
	}
	if err := p.validate.Struct(ev); err != nil {
		return Untracked, pkgerrors.Wrap(ErrInvalidEvent, err.Error())
	}

	// cooldown runs on clock time, not the event's own timestamp
	userKey := normalize(ev.ExternalUserID)
	if now := p.now(); !p.gate.Admit(userKey, now) {
		p.log.Debug("message inside cooldown",
			zap.String("user", userKey),
			zap.Duration("remaining", p.gate.Remaining(userKey, now)))
		return CoolingDown, nil
	}

	at := ev.Timestamp
	if at.IsZero() {
		at = p.now()
	}

	community, err := p.identity.ResolveCommunity(ctx, identity.CommunityIdentity{
		ExternalID: ev.ExternalCommunityID,
		Name:       ev.CommunityName,
		IconURL:    ev.CommunityIcon,
	}, at)
	if err != nil {
		return Untracked, err
	}
	if !community.TracksXP() {
		return TrackingDisabled, nil
	}

	u, err := p.identity.ResolveUser(ctx, identity.UserIdentity{
		ExternalID:    ev.ExternalUserID,
		Username:      ev.Username,
		Discriminator: ev.Discriminator,
		AvatarURL:     ev.AvatarURL,
		IsBot:         ev.IsBot,
	}, at)
	if err != nil {
		return Untracked, err
	}

	delta := stats.Delta{
		UserID:      u.ID,
		CommunityID: community.ID,
		XP:          p.xpPerMessage,
		Messages:    1,
		At:          at,
	}
	if ev.ExternalChannelID != "" {
		ch := &stats.Channel{ID: ev.ExternalChannelID}
		if ev.ChannelCommunityID == "" || normalize(ev.ChannelCommunityID) == community.ExternalID {
			ch.CommunityID = community.ID
		}
		delta.Channel = ch
	}

	if err := p.store.ApplyDelta(ctx, delta); err != nil {
		return Untracked, err
	}
	return Counted, nil
}

// PruneGate drops expired cooldown entries.
func (p *Pipeline) PruneGate() int {
	return p.gate.Prune(p.now())
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
