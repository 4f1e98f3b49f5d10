package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(remindersCreatedTotal, remindersCancelledTotal) }

var remindersCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "reminders_created_total",
		Help: "Total number of reminders created.",
	},
)

var remindersCancelledTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "reminders_cancelled_total",
		Help: "Total number of reminders cancelled by their owner.",
	},
)

func IncReminderCreated()   { remindersCreatedTotal.Inc() }
func IncReminderCancelled() { remindersCancelledTotal.Inc() }
