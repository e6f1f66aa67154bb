package eureka

import (
	"fmt"
	"strings"

	"github.com/thebluefish/eureka-notify/internal/notify"
	"github.com/thebluefish/eureka-notify/internal/status"
)

// SummaryMessage is the post for the report's cycle. It pings roleID when
// something starts next cycle.
func SummaryMessage(r *status.Report, roleID string) notify.Message {
	msg := buildMessage(r)

	next := r.At.AddCycles(1).ToReal()
	started := r.At.ToReal()
	msg.Embeds = append(msg.Embeds, zonesEmbed(r, notify.Field{
		Name:  "Next " + notify.RelativeTimestamp(next),
		Value: "Started " + notify.RelativeTimestamp(started),
	}))

	if r.AnyUpcoming() {
		msg.MentionRole(roleID)
	}
	return msg
}

// HistoryMessage is what a summary post is rewritten to once its cycle is over
func HistoryMessage(r *status.Report) notify.Message {
	msg := buildMessage(r)

	started := r.At.ToReal()
	msg.Embeds = append(msg.Embeds, zonesEmbed(r, notify.Field{
		Name:  notify.RelativeTimestamp(started),
		Value: notify.Timestamp(started),
	}))
	return msg
}

func buildMessage(r *status.Report) notify.Message {
	var msg notify.Message

	// While something is active, show every condition; otherwise only what is next
	var fields []notify.Field
	for _, c := range r.Conditions {
		if r.AnyActive() || c.Upcoming {
			fields = append(fields, conditionField(c))
		}
	}
	for _, run := range r.Runs {
		if run.Upcoming {
			fields = append(fields, notify.Field{
				Name:   fmt.Sprintf("%s x%d %s", run.Condition.Name, run.Length, notify.RelativeTimestamp(run.Start.ToReal())),
				Value:  notify.Timestamp(run.Start.ToReal()),
				Inline: true,
			})
		}
	}
	if len(fields) > 0 {
		msg.Embeds = append(msg.Embeds, notify.Embed{Fields: fields})
	}
	return msg
}

func conditionField(c status.Occurrence) notify.Field {
	return notify.Field{
		Name:   c.Condition.Name + " " + notify.RelativeTimestamp(c.Next.ToReal()),
		Value:  "Prev " + notify.RelativeTimestamp(c.Previous.ToReal()),
		Inline: true,
	}
}

func zonesEmbed(r *status.Report, footer notify.Field) notify.Embed {
	var e notify.Embed
	for _, z := range r.Zones {
		e.Fields = append(e.Fields, notify.Field{
			Name:   fmt.Sprintf("%s: %s", shortZone(z.Zone), z.Current),
			Value:  "Next: " + z.Next.String(),
			Inline: true,
		})
	}
	e.Fields = append(e.Fields, footer)
	return e
}

func shortZone(name string) string {
	return strings.TrimPrefix(name, "Eureka ")
}
