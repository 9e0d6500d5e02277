package controllers

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/models"
	"salecrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// POST /api/contacts/import
// Ingests a CSV (multipart field "file") of contact rows. Expected header
// columns: name, phone, phone2, email, address, postal_code, region_name,
// ssn, deal_value; phone is required, everything else optional. Duplicate
// phones/emails/ssns are skipped, not errors, so re-importing a list is
// harmless. Each run is recorded as an ImportBatch.
func ImportContacts(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing csv file (multipart field \"file\")")
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not open uploaded file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "empty or unreadable csv")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["phone"]; !ok {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "csv is missing the phone column")
	}

	db := database.FromCtx(c)
	eng := lifecycle.NewEngine(db)
	newStatus, err := eng.ResolveStatusByName(lifecycle.StatusNew.String())
	if err != nil {
		return err
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	optional := func(rec []string, name string) *string {
		if v := field(rec, name); v != "" {
			return &v
		}
		return nil
	}

	batch := models.ImportBatch{Filename: fh.Filename}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed csv row")
		}
		batch.Rows++

		phone := field(rec, "phone")
		if phone == "" {
			batch.Skipped++
			continue
		}

		contact := models.Contact{
			Name:       field(rec, "name"),
			Phone:      phone,
			Phone2:     optional(rec, "phone2"),
			Email:      optional(rec, "email"),
			Address:    optional(rec, "address"),
			RegionName: optional(rec, "region_name"),
			SSN:        optional(rec, "ssn"),
			StatusID:   &newStatus.ID,
		}
		if v := field(rec, "postal_code"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				contact.PostalCode = &n
			}
		}
		if v := field(rec, "deal_value"); v != "" {
			if x, err := strconv.ParseFloat(v, 64); err == nil && x >= 0 {
				rounded := utils.Round2(x)
				contact.DealValue = &rounded
			}
		}

		// ON CONFLICT DO NOTHING keeps the batch going past duplicates
		// without aborting the surrounding transaction.
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&contact)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			batch.Skipped++
			continue
		}
		batch.Created++
	}

	if err := db.Create(&batch).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}
