package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	ExportFilename    = "output.xlsx"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	UsersSheet     = "Users"
	ReferralsSheet = "Referrals"

	exportTimeLayout = "2006-01-02 15:04:05"
)

var (
	usersHeader     = []interface{}{"ID", "Phone", "Referral Code"}
	referralsHeader = []interface{}{"ID", "Referrer ID", "Referred Phone", "Purchased", "Type", "Timestamp"}
)

// ExportService dumps users and referrals into a spreadsheet
type ExportService struct {
	users     CredentialStore
	referrals ReferralLedger
	log       logrus.FieldLogger
}

func NewExportService(users CredentialStore, referrals ReferralLedger, log logrus.FieldLogger) *ExportService {
	return &ExportService{
		users:     users,
		referrals: referrals,
		log:       log.WithField("service", "export"),
	}
}

// Export renders every user and referral into an xlsx workbook
func (s *ExportService) Export(ctx context.Context) ([]byte, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referrals.ListReferrals(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", UsersSheet); err != nil {
		return nil, fmt.Errorf("failed to name users sheet: %w", err)
	}
	if _, err := f.NewSheet(ReferralsSheet); err != nil {
		return nil, fmt.Errorf("failed to create referrals sheet: %w", err)
	}

	userRows := make([][]interface{}, 0, len(users)+1)
	userRows = append(userRows, usersHeader)
	for _, u := range users {
		userRows = append(userRows, []interface{}{u.ID, u.Phone, u.ReferralCode})
	}
	if err := writeRows(f, UsersSheet, userRows); err != nil {
		return nil, err
	}

	referralRows := make([][]interface{}, 0, len(referrals)+1)
	referralRows = append(referralRows, referralsHeader)
	for _, r := range referrals {
		purchased := "No"
		if r.Purchased {
			purchased = "Yes"
		}
		referralRows = append(referralRows, []interface{}{
			r.ID,
			r.ReferrerID,
			r.ReferredPhone,
			purchased,
			string(r.Type),
			r.Timestamp.UTC().Format(exportTimeLayout),
		})
	}
	if err := writeRows(f, ReferralsSheet, referralRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"users":     len(users),
		"referrals": len(referrals),
	}).Info("database exported")
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
