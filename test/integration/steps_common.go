package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

const defaultPassword = "Secret1!"

// placeholder matches {role:Name} and {user:name} in request paths
var placeholder = regexp.MustCompile(`\{(role|user):([^}]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^the identity admin server is running$`, s.theServerIsRunning)
	sc.Step(`^I am authenticated as an admin$`, s.iAmAuthenticatedAsAnAdmin)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Fixture steps
	sc.Step(`^a user "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^a role "([^"]*)" exists$`, s.aRoleExists)
	sc.Step(`^user "([^"]*)" is a member of role "([^"]*)"$`, s.userIsAMemberOfRole)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT) request to "([^"]*)" with:$`, s.iSendARequestWith)
	sc.Step(`^I add "([^"]*)" to and remove "([^"]*)" from role "([^"]*)"$`, s.iAddAndRemoveFromRole)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain error "([^"]*)"$`, s.theResponseShouldContainError)
	sc.Step(`^the role list should show "([^"]*)" with members "([^"]*)"$`, s.theRoleListShouldShow)

	// Store assertions
	sc.Step(`^user "([^"]*)" should be a member of role "([^"]*)"$`, s.userShouldBeAMemberOfRole)
	sc.Step(`^user "([^"]*)" should not be a member of role "([^"]*)"$`, s.userShouldNotBeAMemberOfRole)
	sc.Step(`^role "([^"]*)" should not exist$`, s.roleShouldNotExist)
	sc.Step(`^a log message "([^"]*)" should be recorded$`, s.aLogMessageShouldBeRecorded)
}

// Background steps

func (s *StepsContext) theServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iAmAuthenticatedAsAnAdmin() error {
	token, err := endpoints.GenerateTestToken(s.tc.Config, "cucumber")
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

// Fixture steps

func (s *StepsContext) aUserExists(name string) error {
	_, err := s.tc.Stores.Users.CreateUser(context.Background(), store.NewUser{
		UserName: name,
		Email:    name + "@example.com",
		Password: defaultPassword,
	})
	return err
}

func (s *StepsContext) aRoleExists(name string) error {
	_, err := s.tc.Stores.Membership.CreateRole(context.Background(), name)
	return err
}

func (s *StepsContext) userIsAMemberOfRole(userName, roleName string) error {
	user, err := s.tc.Stores.Users.FindUserByName(context.Background(), userName)
	if err != nil {
		return err
	}
	return s.tc.Stores.Membership.AddToRole(context.Background(), *user, roleName)
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.doRequest(method, path, nil)
}

func (s *StepsContext) iSendARequestWith(method, path string, body *godog.DocString) error {
	return s.doRequest(method, path, []byte(body.Content))
}

func (s *StepsContext) iAddAndRemoveFromRole(add, remove, roleName string) error {
	role, err := s.roleByName(roleName)
	if err != nil {
		return err
	}

	delta := membership.Delta{RoleID: role.ID, RoleName: role.Name}
	if delta.AddIDs, err = s.userIDs(add); err != nil {
		return err
	}
	if delta.RemoveIDs, err = s.userIDs(remove); err != nil {
		return err
	}

	body, err := json.Marshal(delta)
	if err != nil {
		return err
	}
	return s.doRequest(http.MethodPost, "/roles/"+role.ID+"/members", body)
}

func (s *StepsContext) doRequest(method, path string, body []byte) error {
	path, err := s.expandPath(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// expandPath replaces {role:Name} and {user:name} with their ids
func (s *StepsContext) expandPath(path string) (string, error) {
	var lookupErr error
	expanded := placeholder.ReplaceAllStringFunc(path, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		switch parts[1] {
		case "role":
			role, err := s.roleByName(parts[2])
			if err != nil {
				lookupErr = err
				return m
			}
			return role.ID
		default:
			user, err := s.tc.Stores.Users.FindUserByName(context.Background(), parts[2])
			if err != nil {
				lookupErr = fmt.Errorf("user %s: %w", parts[2], err)
				return m
			}
			return user.ID
		}
	})
	return expanded, lookupErr
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainError(expected string) error {
	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !slices.Contains(body.Errors, expected) {
		return fmt.Errorf("expected error %q in %v", expected, body.Errors)
	}
	return nil
}

func (s *StepsContext) theRoleListShouldShow(roleName, members string) error {
	if err := s.doRequest(http.MethodGet, "/roles", nil); err != nil {
		return err
	}
	if err := s.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var roles []endpoints.RoleListItem
	if err := json.Unmarshal(s.responseBody, &roles); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	for _, role := range roles {
		if role.Name == roleName {
			if role.Users != members {
				return fmt.Errorf("expected %s to have members %q, got %q", roleName, members, role.Users)
			}
			return nil
		}
	}
	return fmt.Errorf("role %s not in list", roleName)
}

// Store assertions

func (s *StepsContext) isMember(userName, roleName string) (bool, error) {
	user, err := s.tc.Stores.Users.FindUserByName(context.Background(), userName)
	if err != nil {
		return false, err
	}
	return s.tc.Stores.Membership.IsMember(context.Background(), *user, roleName)
}

func (s *StepsContext) userShouldBeAMemberOfRole(userName, roleName string) error {
	ok, err := s.isMember(userName, roleName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not a member of %s", userName, roleName)
	}
	return nil
}

func (s *StepsContext) userShouldNotBeAMemberOfRole(userName, roleName string) error {
	ok, err := s.isMember(userName, roleName)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%s is still a member of %s", userName, roleName)
	}
	return nil
}

func (s *StepsContext) roleShouldNotExist(roleName string) error {
	if _, err := s.roleByName(roleName); err == nil {
		return fmt.Errorf("role %s still exists", roleName)
	}
	return nil
}

func (s *StepsContext) aLogMessageShouldBeRecorded(message string) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT count(*) FROM messages WHERE message = ?`, message).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no log message %q", message)
	}
	return nil
}

func (s *StepsContext) roleByName(name string) (*store.Role, error) {
	roles, err := s.tc.Stores.Membership.ListRoles(context.Background())
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if store.Normalize(role.Name) == store.Normalize(name) {
			return &role, nil
		}
	}
	return nil, fmt.Errorf("role %s does not exist", name)
}

func (s *StepsContext) userIDs(names string) ([]string, error) {
	var ids []string
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		user, err := s.tc.Stores.Users.FindUserByName(context.Background(), name)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", name, err)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}
