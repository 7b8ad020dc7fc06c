package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn"
)

var placeholderRgx = regexp.MustCompile(`\{([a-z0-9_-]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	passwords    map[string]string
	ids          map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		passwords: make(map[string]string),
		ids:       make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^the API server is running$`, s.theAPIServerIsRunning)
	sc.Step(`^a user "([^"]*)" exists with password "([^"]*)"$`, s.aUserExistsWithPassword)
	sc.Step(`^I am logged in as "([^"]*)"$`, s.iAmLoggedInAs)
	sc.Step(`^I am not logged in$`, s.iAmNotLoggedIn)

	// Authentication steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I should receive a bearer token$`, s.iShouldReceiveABearerToken)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT|PATCH) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I remember the response id as "([^"]*)"$`, s.iRememberTheResponseIDAs)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should not be empty$`, s.theResponseFieldShouldNotBeEmpty)
	sc.Step(`^the response should be a list of (\d+) items?$`, s.theResponseShouldBeAListOf)
	sc.Step(`^the response body should be:$`, s.theResponseBodyShouldBe)

	// Database steps
	sc.Step(`^the client "([^"]*)" should have (\d+) projects?$`, s.theClientShouldHaveProjects)
	sc.Step(`^the client "([^"]*)" should not exist$`, s.theClientShouldNotExist)
}

// Background steps

func (s *StepsContext) theAPIServerIsRunning() error {
	return nil
}

func (s *StepsContext) aUserExistsWithPassword(username, password string) error {
	hash, err := authn.HashPassword([]byte(password))
	if err != nil {
		return err
	}

	var id int64
	err = s.tc.DB.Raw(`
		INSERT INTO users (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, username, hash).Scan(&id).Error
	if err != nil {
		return err
	}

	s.passwords[username] = password
	s.ids[username] = strconv.FormatInt(id, 10)
	return nil
}

func (s *StepsContext) iAmLoggedInAs(username string) error {
	password, ok := s.passwords[username]
	if !ok {
		return fmt.Errorf("user %q was not created in this scenario", username)
	}
	if err := s.iLogInAs(username, password); err != nil {
		return err
	}
	if s.authToken == "" {
		return fmt.Errorf("login as %q failed: %d %s", username, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iAmNotLoggedIn() error {
	s.authToken = ""
	return nil
}

// Authentication steps

func (s *StepsContext) iLogInAs(username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	s.authToken = ""
	if err := s.do("POST", "/authn/login", string(body)); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var login struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &login); err == nil {
			s.authToken = login.Token
		}
	}
	return nil
}

func (s *StepsContext) iShouldReceiveABearerToken() error {
	if s.authToken == "" {
		return fmt.Errorf("no token in response: %s", s.responseBody)
	}
	if strings.Count(s.authToken, ".") != 2 {
		return fmt.Errorf("token %q is not a JWT", s.authToken)
	}
	return nil
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, s.expand(path), "")
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, s.expand(path), s.expand(body.Content))
}

func (s *StepsContext) iRememberTheResponseIDAs(name string) error {
	id, err := s.field("id")
	if err != nil {
		return err
	}
	s.ids[name] = fmt.Sprint(id)
	return nil
}

// expand substitutes {name} with a remembered id.
func (s *StepsContext) expand(text string) string {
	return placeholderRgx.ReplaceAllStringFunc(text, func(m string) string {
		if id, ok := s.ids[m[1:len(m)-1]]; ok {
			return id
		}
		return m
	})
}

func (s *StepsContext) do(method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(path, expected string) error {
	value, err := s.field(path)
	if err != nil {
		return err
	}
	expected = s.expand(expected)
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldNotBeEmpty(path string) error {
	value, err := s.field(path)
	if err != nil {
		return err
	}
	if value == nil || value == "" {
		return fmt.Errorf("expected %s to be set", path)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAListOf(n int) error {
	var list []interface{}
	if err := json.Unmarshal(s.responseBody, &list); err != nil {
		return fmt.Errorf("response is not a list: %s", s.responseBody)
	}
	if len(list) != n {
		return fmt.Errorf("expected %d items, got %d: %s", n, len(list), s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected *godog.DocString) error {
	var want, got interface{}
	if err := json.Unmarshal([]byte(s.expand(expected.Content)), &want); err != nil {
		return fmt.Errorf("bad expected JSON: %w", err)
	}
	if err := json.Unmarshal(s.responseBody, &got); err != nil {
		return fmt.Errorf("response is not JSON: %s", s.responseBody)
	}
	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if string(wantJSON) != string(gotJSON) {
		return fmt.Errorf("expected body %s, got %s", wantJSON, gotJSON)
	}
	return nil
}

// field resolves a dotted path such as "users.0.name" in the JSON response.
func (s *StepsContext) field(path string) (interface{}, error) {
	var current interface{}
	if err := json.Unmarshal(s.responseBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", s.responseBody)
	}

	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s not found in %s", path, s.responseBody)
			}
			current = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %s out of range in %s", part, s.responseBody)
			}
			current = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", path, part)
		}
	}
	return current, nil
}

// Database steps

func (s *StepsContext) theClientShouldHaveProjects(name string, n int) error {
	var count int64
	err := s.tc.DB.Raw(`
		SELECT COUNT(*) FROM projects p JOIN clients c ON c.id = p.client_id
		WHERE c.client_name = ?
	`, name).Scan(&count).Error
	if err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected client %s to have %d projects, found %d", name, n, count)
	}
	return nil
}

func (s *StepsContext) theClientShouldNotExist(name string) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM clients WHERE client_name = ?`, name).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("client %s should not exist but does", name)
	}
	return nil
}
