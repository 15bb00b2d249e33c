// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model here carries the table
// mapping plus ToDomain / FromDomain converters used by the repositories.
//
// Tables:
//   - orders, order_items: placed orders and their purchased lines
//   - customers: email to userOrderId links
//   - products, reviews: the storefront catalog and testimonials
//   - users: admin dashboard accounts
package models
