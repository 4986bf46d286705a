package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NotificationTemplate is the fixed acceptance message shape. Body may contain
// the placeholders {partner}, {date} and {vibe}.
type NotificationTemplate struct {
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`

	PartnerFallback string `mapstructure:"partnerFallback"`
	DateFallback    string `mapstructure:"dateFallback"`
	VibeFallback    string `mapstructure:"vibeFallback"`
}

func DefaultNotificationTemplate() NotificationTemplate {
	return NotificationTemplate{
		Subject:         "She said YES! 💘",
		Body:            "Congrats! {partner} accepted your proposal. Date: {date}, Vibe: {vibe}.",
		PartnerFallback: "Your partner",
		DateFallback:    "TBD",
		VibeFallback:    "Surprise!",
	}
}

// NotificationTemplateHolder serves the current template and hot-reloads it
// from an optional notification.yml.
type NotificationTemplateHolder struct {
	current atomic.Value // holds NotificationTemplate
}

func NewNotificationTemplateHolder() (*NotificationTemplateHolder, error) {
	v := viper.New()

	v.SetConfigName("notification")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/valentine/config")
	v.AddConfigPath("/etc/valentine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VALENTINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultNotificationTemplate()
	v.SetDefault("template.subject", defaults.Subject)
	v.SetDefault("template.body", defaults.Body)
	v.SetDefault("template.partnerFallback", defaults.PartnerFallback)
	v.SetDefault("template.dateFallback", defaults.DateFallback)
	v.SetDefault("template.vibeFallback", defaults.VibeFallback)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var tpl NotificationTemplate
	if err := v.UnmarshalKey("template", &tpl); err != nil {
		return nil, err
	}
	if err := validateNotificationTemplate(tpl); err != nil {
		return nil, err
	}

	holder := &NotificationTemplateHolder{}
	holder.current.Store(tpl)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NotificationTemplate
		if err := v.UnmarshalKey("template", &updated); err != nil {
			log.Printf("[notification-template] reload failed: %v", err)
			return
		}
		if err := validateNotificationTemplate(updated); err != nil {
			log.Printf("[notification-template] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[notification-template] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *NotificationTemplateHolder) Get() NotificationTemplate {
	return h.current.Load().(NotificationTemplate)
}

func validateNotificationTemplate(tpl NotificationTemplate) error {
	if strings.TrimSpace(tpl.Subject) == "" {
		return errors.New("template.subject cannot be empty")
	}
	if strings.TrimSpace(tpl.Body) == "" {
		return errors.New("template.body cannot be empty")
	}
	return nil
}
