package services

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jeffail/gabs"

	"vitigen/api/models"
)

var publicAuthnErrorMessage string = "Something went wrong interfacing with the identity service! Please contact the system administrators.."

type (
	// AuthnService resolves the requester's identity at the service
	// boundary. Credential verification itself happens in the external
	// identity service; this only consumes its already-verified answer.
	AuthnService struct {
		isEnabled          bool
		identityServiceUrl string
	}
)

func NewAuthnService(cfg *models.Config) *AuthnService {
	return &AuthnService{
		isEnabled:          cfg.AuthX.IsAuthenticationEnabled,
		identityServiceUrl: cfg.AuthX.IdentityServiceUrl,
	}
}

func (a *AuthnService) IsEnabled() bool {
	return a.isEnabled
}

// ResolveRequesterEmail exchanges a bearer token for the verified email
// behind it by calling the external identity service.
func (a *AuthnService) ResolveRequesterEmail(authnTokenString string) (string, error) {
	userInfoUrl := fmt.Sprintf("%s/userinfo", a.identityServiceUrl)
	userInfoReq, reqErr := http.NewRequest("GET", userInfoUrl, bytes.NewBuffer([]byte{}))
	if reqErr != nil {
		fmt.Printf("%s\n", reqErr.Error())
		return "", errors.New(publicAuthnErrorMessage)
	}
	userInfoReq.Header.Add("Authorization", "Bearer "+authnTokenString)

	client := &http.Client{}
	userInfoRes, resErr := client.Do(userInfoReq)
	if resErr != nil {
		fmt.Printf("%s\n", resErr.Error())
		return "", errors.New(publicAuthnErrorMessage)
	}
	defer userInfoRes.Body.Close()

	if userInfoRes.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity service rejected the provided token")
	}

	jsonParsed, parseErr := gabs.ParseJSONBuffer(userInfoRes.Body)
	if parseErr != nil {
		fmt.Printf("Error parsing identity service response : %s\n", parseErr)
		return "", errors.New(publicAuthnErrorMessage)
	}

	email, ok := jsonParsed.Path("email").Data().(string)
	if !ok || email == "" {
		return "", fmt.Errorf("identity service returned no email for the provided token")
	}

	return email, nil
}
