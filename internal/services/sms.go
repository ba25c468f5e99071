package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// SMSSender delivers one-time codes through an external SMS gateway. When no
// gateway is configured the code is logged instead, which is the dev-mode
// behavior.
type SMSSender struct {
	gatewayURL string
	token      string
}

// NewSMSSender creates an SMSSender.
func NewSMSSender(gatewayURL, token string) *SMSSender {
	return &SMSSender{gatewayURL: gatewayURL, token: token}
}

type smsMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendOTP delivers a login code to the given phone number.
func (s *SMSSender) SendOTP(phone, code string) error {
	return s.send(phone, fmt.Sprintf("Your FarmLink login code is %s. It expires in 10 minutes.", code))
}

func (s *SMSSender) send(phone, text string) error {
	if s.gatewayURL == "" {
		log.Printf("[SMS] gateway not configured, message for %s: %s", phone, text)
		return nil
	}

	body, err := json.Marshal(smsMessage{Phone: phone, Message: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[SMS] failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[SMS] unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
