//go:build !unix

package wipe

// Без O_NOFOLLOW подмену ловит сравнение открытого файла с результатом Lstat
const openNoFollow = 0
