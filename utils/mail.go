package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

type SMTPConfig struct {
	Address      string
	Host         string
	FromEmail    string
	FromPassword string
}

type OrderEmailData struct {
	StoreName    string
	OrderNumber  string
	CustomerName string
	Phone        string
	DeliveryType string
	Total        string
	Items        int
	AdminURL     string
}

func RenderEmail(templatePath string, data any) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func SendEmail(cfg SMTPConfig, emailTo, emailSubject, body string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		cfg.FromEmail,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", cfg.FromEmail, cfg.FromPassword, cfg.Host)

	if err := smtp.SendMail(cfg.Address, auth, cfg.FromEmail, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
