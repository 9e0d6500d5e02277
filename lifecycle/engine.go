package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salecrm-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transition sources recorded on the audit trail.
const (
	SourceManual      = "manual"
	SourceClaim       = "claim"
	SourceDisposition = "disposition"
)

// Actor identifies the user a transition is performed for.
type Actor struct {
	ID   uint
	Role string
}

// Engine owns every contact status and lock mutation. Each mutation runs as
// one transaction: read the contact, decide, then update guarded by the
// row's lock version. Two concurrent writers can therefore never both
// succeed on the same version; the loser gets ErrConflict (or, for Claim,
// degrades to "already claimed").
type Engine struct {
	db           *gorm.DB
	dispositions DispositionMap
	now          func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return NewEngineWithDispositions(db, DefaultDispositions)
}

func NewEngineWithDispositions(db *gorm.DB, dispositions DispositionMap) *Engine {
	return &Engine{db: db, dispositions: dispositions, now: time.Now}
}

// Get loads a contact with its status and lock owner, without side effects.
func (e *Engine) Get(contactID uint) (*models.Contact, error) {
	return e.getContact(e.db, contactID)
}

// SetStatus moves a contact to target on behalf of actor. A contact in
// "Exclusive Lock" can only be moved by its lock owner, including back to
// "New". Moving to "Exclusive Lock" records actor as the owner; moving
// anywhere else clears the owner, keeping status and lock coupled.
func (e *Engine) SetStatus(contactID uint, actor Actor, target Status) (*models.Contact, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	var out *models.Contact
	err := e.db.Transaction(func(tx *gorm.DB) error {
		contact, err := e.getContact(tx, contactID)
		if err != nil {
			return err
		}
		if statusName(contact) == StatusExclusiveLock && !ownedBy(contact, actor.ID) {
			return ErrLockHeld
		}
		statusRow, err := e.statusRow(tx, target)
		if err != nil {
			return err
		}
		var owner *uint
		if target == StatusExclusiveLock {
			id := actor.ID
			owner = &id
		}
		if err := e.commitTransition(tx, contact, transition{
			to:     statusRow,
			owner:  owner,
			source: SourceManual,
			actor:  &actor,
		}); err != nil {
			return err
		}
		out, err = e.getContact(tx, contactID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Claim acquires the exclusive lock for actor if the contact is still
// unclaimed ("New", no owner). Any other state is returned unchanged:
// viewing an already-claimed contact must neither re-lock nor fail. Losing
// the version race to a concurrent claim degrades to the same unchanged
// result.
func (e *Engine) Claim(contactID uint, actor Actor) (*models.Contact, bool, error) {
	claimed := false
	var out *models.Contact
	err := e.db.Transaction(func(tx *gorm.DB) error {
		contact, err := e.getContact(tx, contactID)
		if err != nil {
			return err
		}
		if statusName(contact) != StatusNew || contact.LockedByID != nil {
			out = contact
			return nil
		}
		lockRow, err := e.statusRow(tx, StatusExclusiveLock)
		if err != nil {
			return err
		}
		owner := actor.ID
		err = e.commitTransition(tx, contact, transition{
			to:     lockRow,
			owner:  &owner,
			source: SourceClaim,
			actor:  &actor,
		})
		if errors.Is(err, ErrConflict) {
			out, err = e.getContact(tx, contactID)
			return err
		}
		if err != nil {
			return err
		}
		claimed = true
		out, err = e.getContact(tx, contactID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return out, claimed, nil
}

// ApplyDisposition applies the status a call's outcome tag maps to.
// Unmapped tags leave the contact untouched; so does a tag whose target
// equals the current status. Mapped transitions are system initiated: they
// bypass the lock permission check, and because no tag may target
// "Exclusive Lock" the owner is always cleared on change. The bool reports
// whether the contact moved.
func (e *Engine) ApplyDisposition(contactID uint, actor Actor, tag string) (*models.Contact, bool, error) {
	changed := false
	var out *models.Contact
	err := e.db.Transaction(func(tx *gorm.DB) error {
		contact, err := e.getContact(tx, contactID)
		if err != nil {
			return err
		}
		target, ok := e.dispositions.Resolve(tag)
		if !ok || statusName(contact) == target {
			out = contact
			return nil
		}
		statusRow, err := e.statusRow(tx, target)
		if err != nil {
			return err
		}
		t := tag
		if err := e.commitTransition(tx, contact, transition{
			to:     statusRow,
			source: SourceDisposition,
			tag:    &t,
			actor:  &actor,
		}); err != nil {
			return err
		}
		changed = true
		out, err = e.getContact(tx, contactID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

// ResolveStatusByID looks a status row up by primary key.
func (e *Engine) ResolveStatusByID(id uint) (*models.ContactStatus, error) {
	var status models.ContactStatus
	if err := e.db.First(&status, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

// ResolveStatusByName looks a status row up by its canonical name. Names
// outside the closed enumeration fail with ErrInvalidStatus before any
// query runs.
func (e *Engine) ResolveStatusByName(name string) (*models.ContactStatus, error) {
	s, err := ParseStatus(name)
	if err != nil {
		return nil, err
	}
	return e.statusRow(e.db, s)
}

// LockedContacts lists every contact currently held in "Exclusive Lock",
// most recently touched first.
func (e *Engine) LockedContacts() ([]models.Contact, error) {
	lockRow, err := e.statusRow(e.db, StatusExclusiveLock)
	if err != nil {
		return nil, err
	}
	var contacts []models.Contact
	err = e.db.Preload("Status").Preload("LockedBy").
		Where("status_id = ?", lockRow.ID).
		Order("updated_at DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// History returns the contact's transition trail, newest first.
func (e *Engine) History(contactID uint) ([]models.ContactStatusTransition, error) {
	if _, err := e.getContact(e.db, contactID); err != nil {
		return nil, err
	}
	var transitions []models.ContactStatusTransition
	err := e.db.Where("contact_id = ?", contactID).
		Order("created_at DESC").Order("id DESC").
		Find(&transitions).Error
	if err != nil {
		return nil, err
	}
	return transitions, nil
}

// AllowWrite reports whether actor may mutate the contact's row: a contact
// in "Exclusive Lock" is writable only by its lock owner.
func AllowWrite(contact *models.Contact, actor Actor) bool {
	if statusName(contact) != StatusExclusiveLock {
		return true
	}
	return ownedBy(contact, actor.ID)
}

// transition is one decided status change, ready to commit.
type transition struct {
	to     *models.ContactStatus
	owner  *uint // locked_by after the change; nil clears it
	source string
	tag    *string
	actor  *Actor
}

// snapshot is the denormalized JSON stored with each transition row.
type snapshot struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to"`
	LockOwnerFrom  *uint  `json:"lock_owner_from,omitempty"`
	LockOwnerTo    *uint  `json:"lock_owner_to,omitempty"`
	ActorRole      string `json:"actor_role,omitempty"`
	Disposition    string `json:"disposition,omitempty"`
	RulesetVersion int    `json:"ruleset_version,omitempty"`
}

// commitTransition performs the guarded update and records the audit row.
// contact must be the row as read inside tx; its LockVersion is the guard.
func (e *Engine) commitTransition(tx *gorm.DB, contact *models.Contact, tr transition) error {
	now := e.now().UTC()
	updates := map[string]interface{}{
		"status_id":    tr.to.ID,
		"updated_at":   now,
		"lock_version": contact.LockVersion + 1,
	}
	if tr.owner != nil {
		updates["locked_by_user_id"] = *tr.owner
	} else {
		updates["locked_by_user_id"] = nil
	}
	res := tx.Model(&models.Contact{}).
		Where("id = ? AND lock_version = ?", contact.ID, contact.LockVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}

	snap := snapshot{
		From:          statusName(contact).String(),
		To:            tr.to.Name,
		LockOwnerFrom: contact.LockedByID,
		LockOwnerTo:   tr.owner,
	}
	if tr.actor != nil {
		snap.ActorRole = tr.actor.Role
	}
	if tr.tag != nil {
		snap.Disposition = *tr.tag
		snap.RulesetVersion = e.dispositions.Version()
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	record := models.ContactStatusTransition{
		ContactID:    contact.ID,
		FromStatusID: contact.StatusID,
		ToStatusID:   tr.to.ID,
		Source:       tr.source,
		Disposition:  tr.tag,
		Snapshot:     datatypes.JSON(raw),
		CreatedAt:    now,
	}
	if tr.actor != nil {
		id := tr.actor.ID
		record.ActorID = &id
	}
	return tx.Create(&record).Error
}

func (e *Engine) getContact(tx *gorm.DB, contactID uint) (*models.Contact, error) {
	var contact models.Contact
	err := tx.Preload("Status").Preload("LockedBy").First(&contact, contactID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (e *Engine) statusRow(tx *gorm.DB, s Status) (*models.ContactStatus, error) {
	var row models.ContactStatus
	if err := tx.Where("name = ?", s.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrStatusNotFound, s)
		}
		return nil, err
	}
	return &row, nil
}

func statusName(contact *models.Contact) Status {
	if contact.Status == nil {
		return ""
	}
	return Status(contact.Status.Name)
}

func ownedBy(contact *models.Contact, userID uint) bool {
	return contact.LockedByID != nil && *contact.LockedByID == userID
}
