package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// normalizePath раскрывает ~ и переводит пути между WSL и Windows
func normalizePath(p string) string {
	return convertPath(expandHome(p), runtime.GOOS)
}

func expandHome(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return home + p[1:]
		}
	}
	return p
}

// convertPath: /mnt/c/Users -> C:\Users на Windows, C:\Users -> /mnt/c/Users в остальных системах
func convertPath(p, goos string) string {
	if p == "" {
		return p
	}

	if goos == "windows" {
		if rest, ok := strings.CutPrefix(p, "/mnt/"); ok && rest != "" {
			parts := strings.Split(rest, "/")
			drive := strings.ToUpper(parts[0]) + `:\`
			return cleanWindows(drive + strings.Join(parts[1:], `\`))
		}
		return cleanWindows(p)
	}

	if len(p) >= 3 && p[1] == ':' && strings.Contains(p, `\`) {
		drive := strings.ToLower(p[:1])
		rest := strings.ReplaceAll(p[3:], `\`, "/")
		return filepath.Clean("/mnt/" + drive + "/" + rest)
	}
	return filepath.Clean(p)
}

// cleanWindows нормализует разделители независимо от ОС сборки
func cleanWindows(p string) string {
	p = strings.ReplaceAll(p, "/", `\`)
	for strings.Contains(p, `\\`) {
		p = strings.ReplaceAll(p, `\\`, `\`)
	}
	if len(p) > 3 {
		p = strings.TrimSuffix(p, `\`)
	}
	return p
}
