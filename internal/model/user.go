package model

// RoleAdmin is the admin user role. Admins are the only role with access
// to the authoring area.
const RoleAdmin = "admin"
