// Package migration imports seed data exported as JSON files.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Seed file names, imported in this order
const (
	UsersFile      = "users.json"
	WorkspacesFile = "workspaces.json"
	ProspectsFile  = "prospectos.json"
)

var seedFiles = []string{UsersFile, WorkspacesFile, ProspectsFile}

// JSONImporter loads users, workspaces and prospects from a directory of JSON
// arrays. Records go through the services, so validation and natural-key
// conflicts behave exactly as over HTTP.
type JSONImporter struct {
	services   services.ServiceContainer
	logger     *logrus.Logger
	jsonPath   string
	backupPath string
}

// NewJSONImporter creates a new importer
func NewJSONImporter(sc services.ServiceContainer, jsonPath string, logger *logrus.Logger) *JSONImporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONImporter{
		services:   sc,
		logger:     logger,
		jsonPath:   jsonPath,
		backupPath: filepath.Join(jsonPath, "backup"),
	}
}

// SeedWorkspace is a workspace record; user_email resolves the owner when user_id is absent
type SeedWorkspace struct {
	services.CreateWorkspaceRequest
	UserEmail string `json:"user_email"`
}

// ImportResult contains the results of an import
type ImportResult struct {
	UsersImported      int
	WorkspacesImported int
	ProspectsImported  int
	Skipped            int
	Errors             []string
	Warnings           []string
}

// Import reads every seed file present and stores its records
func (m *JSONImporter) Import(ctx context.Context) (*ImportResult, error) {
	m.logger.Info("Starting JSON import...")

	result := &ImportResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if err := m.createJSONBackup(); err != nil {
		m.logger.WithError(err).Warn("Failed to create JSON backup")
		result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to create JSON backup: %v", err))
	}

	if err := m.importUsers(ctx, result); err != nil {
		return result, fmt.Errorf("user import failed: %w", err)
	}
	if err := m.importWorkspaces(ctx, result); err != nil {
		return result, fmt.Errorf("workspace import failed: %w", err)
	}
	if err := m.importProspects(ctx, result); err != nil {
		return result, fmt.Errorf("prospect import failed: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"users":      result.UsersImported,
		"workspaces": result.WorkspacesImported,
		"prospects":  result.ProspectsImported,
		"skipped":    result.Skipped,
		"errors":     len(result.Errors),
	}).Info("JSON import completed")

	return result, nil
}

// readRecords decodes a seed file into raw records; a missing file yields none
func (m *JSONImporter) readRecords(name string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Join(m.jsonPath, name))
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.WithField("file", name).Warn("Seed file not found, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return records, nil
}

// record files an outcome; duplicates count as skipped
func (m *JSONImporter) record(result *ImportResult, file string, index int, err error) bool {
	if err == nil {
		return true
	}
	if repositories.IsDuplicate(err) {
		result.Skipped++
		m.logger.WithFields(logrus.Fields{"file": file, "index": index}).Debug("Record already exists")
		return false
	}
	result.Errors = append(result.Errors, fmt.Sprintf("%s[%d]: %v", file, index, err))
	m.logger.WithError(err).WithFields(logrus.Fields{"file": file, "index": index}).Warn("Skipping invalid record")
	return false
}

func (m *JSONImporter) importUsers(ctx context.Context, result *ImportResult) error {
	records, err := m.readRecords(UsersFile)
	if err != nil {
		return err
	}

	for i, raw := range records {
		var req services.CreateUserRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			m.record(result, UsersFile, i, err)
			continue
		}
		_, err := m.services.UserService.CreateUser(ctx, &req)
		if m.record(result, UsersFile, i, err) {
			result.UsersImported++
		}
	}
	return nil
}

func (m *JSONImporter) importWorkspaces(ctx context.Context, result *ImportResult) error {
	records, err := m.readRecords(WorkspacesFile)
	if err != nil {
		return err
	}

	for i, raw := range records {
		var seed SeedWorkspace
		if err := json.Unmarshal(raw, &seed); err != nil {
			m.record(result, WorkspacesFile, i, err)
			continue
		}

		if seed.UserID == nil && strings.TrimSpace(seed.UserEmail) != "" {
			owner, err := m.services.UserService.GetUserByEmail(ctx, seed.UserEmail)
			if err != nil {
				m.record(result, WorkspacesFile, i, fmt.Errorf("owner %s: %w", seed.UserEmail, err))
				continue
			}
			seed.UserID = &owner.ID
		}

		_, err := m.services.WorkspaceService.CreateWorkspace(ctx, &seed.CreateWorkspaceRequest)
		if m.record(result, WorkspacesFile, i, err) {
			result.WorkspacesImported++
		}
	}
	return nil
}

func (m *JSONImporter) importProspects(ctx context.Context, result *ImportResult) error {
	records, err := m.readRecords(ProspectsFile)
	if err != nil || len(records) == 0 {
		return err
	}

	batch, err := m.services.ProspectService.BatchCreateProspects(ctx, records)
	if err != nil {
		return err
	}

	for _, item := range batch.Created {
		if item.AlreadyExists {
			result.Skipped++
			continue
		}
		result.ProspectsImported++
	}
	for _, e := range batch.Errors {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", ProspectsFile, e.Error))
	}
	return nil
}

// createJSONBackup copies the seed files into a timestamped backup
func (m *JSONImporter) createJSONBackup() error {
	timestamp := time.Now().Format("20060102_150405")

	for _, filename := range seedFiles {
		srcPath := filepath.Join(m.jsonPath, filename)
		if _, err := os.Stat(srcPath); os.IsNotExist(err) {
			continue
		}

		if err := os.MkdirAll(m.backupPath, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}

		dstPath := filepath.Join(m.backupPath, fmt.Sprintf("%s_%s", timestamp, filename))
		if err := copyFile(srcPath, dstPath); err != nil {
			return fmt.Errorf("failed to backup %s: %w", filename, err)
		}

		m.logger.WithField("backup_file", dstPath).Info("JSON file backed up")
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CheckJSONFilesExist reports which seed files are present
func (m *JSONImporter) CheckJSONFilesExist() (bool, []string) {
	var existing []string
	for _, filename := range seedFiles {
		if _, err := os.Stat(filepath.Join(m.jsonPath, filename)); err == nil {
			existing = append(existing, filename)
		}
	}
	return len(existing) > 0, existing
}
