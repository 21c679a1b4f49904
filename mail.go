package main

import (
	"bytes"
	"log"

	"github.com/spf13/viper"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SendContactMail delivers a contact-form message to the configured site
// owner address over SMTP.
func SendContactMail(subject, body string) error {
	from := viper.GetString("smtp.from")
	host := viper.GetString("smtp.host")
	port := viper.GetString("smtp.port")
	username := viper.GetString("smtp.username")
	password := viper.GetString("smtp.password")
	recipient := viper.GetString("contact_email")

	auth := sasl.NewLoginClient(username, password)

	message := "From: " + from + "\n" +
		"To: " + recipient + "\n" +
		"Subject: " + subject + "\n\n" +
		body

	reader := bytes.NewReader([]byte(message))
	if err := smtp.SendMail(host+":"+port, auth, from, []string{recipient}, reader); err != nil {
		log.Printf("WARN: Failed to send email: %v", err)
		return err
	}
	return nil
}
