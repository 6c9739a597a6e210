package bot

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// notifyOutcomes drains the pipeline's outcome channel and posts each result
// into the channel the bet came from. Rejections are already answered inline
// at submission time by the interaction handler; anything arriving here is a
// settlement, refund or escalation.
func (b *Bot) notifyOutcomes(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info("Outcome notifier stopped")
			return
		case outcome := <-b.outcomes:
			channelID := strconv.FormatInt(outcome.ChannelID, 10)
			if _, err := b.session.ChannelMessageSendEmbed(channelID, outcomeEmbed(outcome)); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"bet_id":     outcome.BetID,
					"channel_id": channelID,
				}).Error("Failed to post outcome")
			}
		}
	}
}
