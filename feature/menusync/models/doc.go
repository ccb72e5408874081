// Package models contains the menu schema (GORM entities) and the raw POS
// snapshot document shape.
//
// Every reconciled entity carries an internal DB id, the partner-assigned
// pos_id (the natural reconciliation key), a partner tag, a 1-based
// sequence within its parent scope and a soft-delete flag. Association
// rows (item_addon_groups, item_addons, item_taxes) have no independent
// identity and no soft delete; they are rebuilt wholesale every pass.
package models
