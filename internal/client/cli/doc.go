// Package cli implements the sealbox command-line client on top of cobra.
//
// Commands:
//
//	keygen                      create the local age identity
//	register <email>            create an account for the local public key
//	login <email> / logout      manage the stored session
//	whoami                      show the logged-in principal
//	upload <path>               encrypt and store a file
//	download <file-id>          fetch and decrypt a file
//	share <file-id> <email>     grant another user access
//	list                        list owned and shared files
//
// Passwords and the identity passphrase are read from the terminal without
// echo.
package cli
