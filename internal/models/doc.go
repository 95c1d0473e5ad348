// Package models defines the core domain entities for Homesplit.
//
// # Entities
//
//   - User: a registered account; members of a household are users
//   - Household: a group of users sharing a shopping list and a debt ledger
//   - ShoppingItem: one line on a household's shared shopping list
//   - DebtRecord: one directional ledger entry from one member to another,
//     with partial-repayment tracking
//   - Repayment: one append-only entry recording money applied to a DebtRecord
//   - NetBalance: a derived, never-persisted simplification of mutual debts
//
// # Design principles
//
//  1. DebtRecords form an append-only ledger: the original amount is fixed at
//     creation, only the repayment side advances, and records are never
//     deleted.
//  2. Monetary fields use decimal.Decimal normalized to two fractional
//     digits; see the money package.
//  3. Relationships are ID strings, not pointers, to avoid circular
//     references between entities.
package models
