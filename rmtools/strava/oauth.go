package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"

	strava "github.com/strava/go.strava"
	"golang.org/x/oauth2"
)

const basePath = "https://www.strava.com/api/v3"
const tokenFilePath = "/tmp/ridematch-token.json"
const callbackPath = "/exchange_token"

// oauthState is echoed back by Strava on the callback
const oauthState = "ridematch"

func oauthConfig(httpPort int, clientID int, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     strconv.Itoa(clientID),
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   basePath + "/oauth/authorize",
			TokenURL:  basePath + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: fmt.Sprintf("http://localhost:%d%s", httpPort, callbackPath),
		Scopes:      []string{"activity:read_all"},
	}
}

// getAccessToken returns the cached token, or runs the web authorization flow
func getAccessToken(ctx context.Context, cfg *oauth2.Config, httpPort int) (*oauth2.Token, error) {
	tok, err := tokenFromFile()
	if err == nil {
		return tok, nil
	}

	tok, err = getTokenFromWeb(ctx, cfg, httpPort)
	if err != nil {
		return nil, err
	}

	return tok, saveToken(tok)
}

type exchangeResult struct {
	token *oauth2.Token
	err   error
}

// Retrieves a token online: the user authorizes the application in the
// browser and Strava redirects to a local callback with the code to exchange.
func getTokenFromWeb(ctx context.Context, cfg *oauth2.Config, httpPort int) (*oauth2.Token, error) {
	done := make(chan exchangeResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, handlerFunc(ctx, cfg, done))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", httpPort), Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- exchangeResult{err: err}
		}
	}()
	defer srv.Close()

	url := cfg.AuthCodeURL(oauthState, oauth2.SetAuthURLParam("approval_prompt", "force"))
	if err := openbrowser(url); err != nil {
		fmt.Printf("Open the following link to authorize access to Strava:\n%s\n", url)
	}

	select {
	case r := <-done:
		return r.token, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handlerFunc builds a http.HandlerFunc that will complete the token exchange
// after a user authorizes the application on strava.com.
func handlerFunc(ctx context.Context, cfg *oauth2.Config, done chan<- exchangeResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res exchangeResult
		defer func() {
			select {
			case done <- res:
			default:
			}
		}()

		// user denied authorization
		if r.FormValue("error") == "access_denied" {
			res.err = strava.OAuthAuthorizationDeniedErr
			oAuthFailure(res.err, w)
			return
		}

		code := r.FormValue("code")
		if code == "" || r.FormValue("state") != oauthState {
			res.err = strava.OAuthInvalidCodeErr
			oAuthFailure(res.err, w)
			return
		}

		res.token, res.err = cfg.Exchange(ctx, code)
		if res.err != nil {
			oAuthFailure(res.err, w)
			return
		}

		fmt.Fprint(w, "Authorization successful, you can close this window.")
	}
}

// Retrieves a token from a local file.
func tokenFromFile() (*oauth2.Token, error) {
	b, err := ioutil.ReadFile(tokenFilePath)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(b, &token); err != nil {
		return nil, err
	}
	if token.RefreshToken == "" {
		return nil, errors.New("cached token can't be refreshed")
	}

	return &token, nil
}

// Saves a token to a file path.
func saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", " ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(tokenFilePath, data, 0600); err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	return nil
}

func oAuthFailure(err error, w http.ResponseWriter) {
	fmt.Fprintf(w, "Authorization Failure:\n")

	switch err {
	case strava.OAuthAuthorizationDeniedErr:
		fmt.Fprint(w, "The 'Do not Authorize' button was clicked on the previous page.\n")
	case strava.OAuthInvalidCodeErr:
		fmt.Fprint(w, "The temporary token was not recognized, this shouldn't happen normally")
	default:
		fmt.Fprint(w, err)
	}
}

func openbrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform")
	}
}
