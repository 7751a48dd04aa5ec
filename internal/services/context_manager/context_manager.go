package context_manager

import (
	"context"
	"strings"
)

type nickKey struct{}
type channelKey struct{}
type networkKey struct{}

// SetNickContext stores the nickname into context
func SetNickContext(ctx context.Context, nick string) context.Context {
	return context.WithValue(ctx, nickKey{}, strings.ToLower(nick))
}

// GetNickContext retrieves the nickname from context
func GetNickContext(ctx context.Context) string {
	nick, _ := ctx.Value(nickKey{}).(string)
	return nick
}

// SetChannelContext stores the reply target (a channel, or a nick for
// private messages).
func SetChannelContext(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, channelKey{}, channel)
}

func GetChannelContext(ctx context.Context) string {
	channel, _ := ctx.Value(channelKey{}).(string)
	return channel
}

func SetNetworkContext(ctx context.Context, network string) context.Context {
	return context.WithValue(ctx, networkKey{}, strings.ToLower(network))
}

func GetNetworkContext(ctx context.Context) string {
	network, _ := ctx.Value(networkKey{}).(string)
	return network
}
