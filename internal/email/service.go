package email

import (
	"fmt"
	"net/smtp"
)

// Service sends transactional mail via SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendPurchaseConfirmation mails the order receipt for a new purchase.
func (s *Service) SendPurchaseConfirmation(to, orderID, productName string, price int, method string) error {
	subject := fmt.Sprintf("Order received - %s", orderID)
	body := BuildPurchaseConfirmationBody(orderID, productName, price, method)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
