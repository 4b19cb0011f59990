package constants

const VERSION = "0.4.0"

const USER_AGENT = "clubadmin/" + VERSION + " (+https://github.com/futsalhub/clubadmin)"
