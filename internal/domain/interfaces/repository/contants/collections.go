package repocontants

const USERS_COLLECTION = "users"
