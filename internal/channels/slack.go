package channels

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/peopled/peopled/internal/bus"
	"github.com/peopled/peopled/internal/config"
)

// SlackChannel implements Slack via Socket Mode.
type SlackChannel struct {
	Base
	cfg       *config.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

func NewSlackChannel(cfg *config.SlackConfig, b bus.Bus) *SlackChannel {
	return &SlackChannel{
		Base: NewBase(bus.ChannelSlack, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return string(bus.ChannelSlack) }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		slog.Warn("slack: bot/app token not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.webClient = slackgo.New(s.cfg.BotToken,
		slackgo.OptionAppLevelToken(s.cfg.AppToken))

	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack: connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)

	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(evt)
		}
	}
}

func (s *SlackChannel) handleEvent(evt socketmode.Event) {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	s.smClient.Ack(*evt.Request)
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
		return
	}
	s.handleInnerEvent(cb.InnerEvent)
}

func (s *SlackChannel) handleInnerEvent(ev slackevents.EventsAPIInnerEvent) {
	// Inner event data arrives as map[string]interface{}, so parse manually.
	data, ok := ev.Data.(map[string]interface{})
	if !ok {
		return
	}
	userID, _ := data["user"].(string)
	channel, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	ts, _ := data["ts"].(string)
	threadTS, _ := data["thread_ts"].(string)

	if subtype != "" || userID == "" || channel == "" {
		return
	}
	if userID == s.botUserID {
		return
	}
	// Avoid double-processing mention + message events.
	if ev.Type == "message" && s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">") {
		return
	}

	if threadTS == "" {
		threadTS = ts
	}

	s.HandleMessage(userID, channel, s.stripMention(text), map[string]any{
		"thread_ts": threadTS,
	})
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return text
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

func (s *SlackChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if s.webClient == nil {
		return nil
	}
	options := []slackgo.MsgOption{slackgo.MsgOptionText(msg.Content(), false)}
	if threadTS, ok := msg.Metadata()["thread_ts"].(string); ok && threadTS != "" {
		options = append(options, slackgo.MsgOptionTS(threadTS))
	}

	_, _, err := s.webClient.PostMessageContext(ctx, msg.ChatId(), options...)
	return err
}
