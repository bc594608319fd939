package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jeffail/gabs"

	"vitigen/api/models"
)

type (
	// NotificationService delivers upload-completion emails through a
	// transactional email REST endpoint. Delivery failures are logged
	// and never fatal to the ingestion run that triggered them.
	NotificationService struct {
		Config *models.Config
	}
)

func NewNotificationService(cfg *models.Config) *NotificationService {
	return &NotificationService{
		Config: cfg,
	}
}

// SendUploadComplete posts the completion email and returns the provider
// message id, or an empty string when delivery did not happen.
func (n *NotificationService) SendUploadComplete(recipientEmail string, filename string,
	collectionName string, totalRecords int) string {

	if n.Config.Notifier.Url == "" {
		// notifier not configured; nothing to do
		return ""
	}

	payload := map[string]interface{}{
		"sender": map[string]string{
			"name":  n.Config.Notifier.SenderName,
			"email": n.Config.Notifier.SenderEmail,
		},
		"to": []map[string]string{
			{"email": recipientEmail},
		},
		"subject": fmt.Sprintf("Your file %s has been processed", filename),
		"htmlContent": fmt.Sprintf(
			"<p>Processing of <b>%s</b> finished successfully.</p><p>%d record(s) are now searchable under <b>%s</b>.</p>",
			filename, totalRecords, collectionName),
	}

	data, marshallErr := json.Marshal(payload)
	if marshallErr != nil {
		fmt.Printf("Error marshalling notification payload: %s\n", marshallErr)
		return ""
	}

	var (
		notifResp       *http.Response
		notifErr        error
		attemptCount    int = 0
		maxAttempts     int = 5
		waitTimeSeconds int = 3
	)
	for {
		// prepare delivery request to the email provider
		r, _ := http.NewRequest("POST", n.Config.Notifier.Url+"/smtp/email", bytes.NewBuffer(data))
		r.Header.Add("api-key", n.Config.Notifier.ApiKey)
		r.Header.Add("Content-Type", "application/json")
		r.Header.Add("Accept", "application/json")

		client := &http.Client{}

		// perform request
		notifResp, notifErr = client.Do(r)

		// check for errors, possibly try again
		if notifErr != nil {
			fmt.Printf("Notification delivery error: %s\n", notifErr)

			if attemptCount < maxAttempts {
				attemptCount++
				time.Sleep(time.Duration(waitTimeSeconds * int(time.Second)))

				fmt.Printf("trying again...\n")
				continue
			} else {
				fmt.Printf("exiting notification loop...\n")
				return "" // empty message-id string
			}
		}

		fmt.Printf("Got a %d status code on notification delivery \n", notifResp.StatusCode)
		if notifResp.StatusCode == 201 || notifResp.StatusCode == 200 {
			fmt.Printf("Upload-complete email for %s accepted by provider: %d\n", filename, notifResp.StatusCode)
			break
		} else if notifResp.StatusCode == 401 {
			// exit right away on 'unauthorized' status code
			fmt.Printf("Received a '401 Unauthorized' from the email provider -- exiting notification loop...\n")
			return "" // empty message-id string
		} else {
			// print response message
			unsuccessfulAttemptResponseBody, unsuccessfulAttemptResponseErr := io.ReadAll(notifResp.Body)
			if unsuccessfulAttemptResponseErr != nil {
				fmt.Printf("Error reading unsuccessful attempt response body: %v", unsuccessfulAttemptResponseErr)
			} else {
				fmt.Printf("Received after failed attempt: %s\n", string(unsuccessfulAttemptResponseBody))
			}

			if attemptCount < maxAttempts {
				attemptCount++
				time.Sleep(time.Duration(waitTimeSeconds * int(time.Second)))

				fmt.Printf("Failed to deliver notification after %d attempts.. Trying again...\n", attemptCount)
				continue
			} else {
				fmt.Printf("After %d failed attempts, exiting notification loop...\n", attemptCount)
				return "" // empty message-id string
			}
		}
	}

	responsebody, bodyerr := io.ReadAll(notifResp.Body)
	if bodyerr != nil {
		fmt.Printf("Error reading body: %v\n", bodyerr)
		return ""
	}

	jsonParsed, err := gabs.ParseJSON(responsebody)
	if err != nil {
		fmt.Printf("Parsing error: %s\n", err)
		return ""
	}

	messageId, _ := jsonParsed.Path("messageId").Data().(string)
	fmt.Println("Got provider message ID: ", messageId)

	return messageId
}
