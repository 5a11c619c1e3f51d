package alpmtest

const packager = "Arch Linux Fixtures <fixtures@example.org>"

// Core returns a snapshot of a core-like repository. The "base" group has
// seven members; "base-devel" has two.
func Core() []Package {
	return []Package{
		{
			Name:      "bash",
			Version:   "5.2.026-2",
			Desc:      "The GNU Bourne Again shell",
			URL:       "https://www.gnu.org/software/bash/bash.html",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"readline", "libreadline.so=8-64", "glibc", "ncurses"},
			Provides:  []string{"sh"},
			CSize:     1874321,
			ISize:     9457658,
			BuildDate: 1707213342,
		},
		{
			Name:      "coreutils",
			Version:   "9.4-3",
			Desc:      "The basic file, shell and text manipulation utilities of the GNU operating system",
			URL:       "https://www.gnu.org/software/coreutils/",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"acl", "attr", "glibc", "gmp", "libcap", "openssl"},
			CSize:     2645342,
			ISize:     15753218,
			BuildDate: 1702488402,
		},
		{
			Name:      "filesystem",
			Version:   "2023.09.18-1",
			Desc:      "Base Arch Linux files",
			URL:       "https://archlinux.org",
			Arch:      "any",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"iana-etc"},
			CSize:     13240,
			ISize:     22304,
			BuildDate: 1695050283,
		},
		{
			Name:      "gcc",
			Version:   "13.2.1-5",
			Base:      "gcc",
			Desc:      "The GNU Compiler Collection - C and C++ frontends",
			URL:       "https://gcc.gnu.org",
			Arch:      "x86_64",
			Groups:    []string{"base-devel"},
			Licenses:  []string{"GPL-3.0-with-GCC-exception", "GFDL-1.3-or-later"},
			Depends:   []string{"gcc-libs=13.2.1-5", "binutils>=2.28", "libmpc", "zstd", "libisl.so=23-64"},
			CSize:     48127410,
			ISize:     194314522,
			BuildDate: 1707730532,
		},
		{
			Name:      "gcc-libs",
			Version:   "13.2.1-5",
			Base:      "gcc",
			Desc:      "Runtime libraries shipped by GCC",
			URL:       "https://gcc.gnu.org",
			Arch:      "x86_64",
			Licenses:  []string{"GPL-3.0-with-GCC-exception"},
			Depends:   []string{"glibc>=2.27"},
			Provides:  []string{"libgcc", "libstdc++", "libgomp.so=1-64"},
			CSize:     29472214,
			ISize:     139741402,
			BuildDate: 1707730532,
		},
		{
			Name:      "glibc",
			Version:   "2.39-1",
			Desc:      "GNU C Library",
			URL:       "https://www.gnu.org/software/libc",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-2.0-or-later", "LGPL-2.1-or-later"},
			Depends:   []string{"linux-api-headers>=4.10", "tzdata", "filesystem"},
			CSize:     10209452,
			ISize:     48237510,
			BuildDate: 1707168032,
		},
		{
			Name:      "gzip",
			Version:   "1.13-2",
			Desc:      "GNU compression utility",
			URL:       "https://www.gnu.org/software/gzip/",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"bash", "glibc", "less"},
			CSize:     81232,
			ISize:     159744,
			BuildDate: 1693411200,
		},
		{
			Name:      "linux",
			Version:   "6.8.2.arch2-1",
			Desc:      "The Linux kernel and modules",
			URL:       "https://github.com/archlinux/linux",
			Arch:      "x86_64",
			Licenses:  []string{"GPL-2.0-only"},
			Depends:   []string{"coreutils", "kmod", "initramfs"},
			CSize:     136223610,
			ISize:     141426785,
			BuildDate: 1711623210,
		},
		{
			Name:      "linux-headers",
			Version:   "6.8.2.arch2-1",
			Base:      "linux",
			Desc:      "Headers and scripts for building modules for the Linux kernel",
			URL:       "https://github.com/archlinux/linux",
			Arch:      "x86_64",
			Licenses:  []string{"GPL-2.0-only"},
			Depends:   []string{"pahole"},
			CSize:     35010212,
			ISize:     190213423,
			BuildDate: 1711623210,
		},
		{
			Name:      "make",
			Version:   "4.4.1-2",
			Desc:      "GNU make utility to maintain groups of programs",
			URL:       "https://www.gnu.org/software/make",
			Arch:      "x86_64",
			Groups:    []string{"base-devel"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"glibc", "guile", "sh"},
			CSize:     517812,
			ISize:     1680492,
			BuildDate: 1685000000,
		},
		{
			Name:      "pacman",
			Version:   "6.1.0-3",
			Desc:      "A library-based package manager with dependency support",
			URL:       "https://www.archlinux.org/pacman/",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-2.0-or-later"},
			Depends:   []string{"bash", "glibc", "libarchive", "curl", "gpgme", "pacman-mirrorlist"},
			Provides:  []string{"libalpm.so=14-64"},
			CSize:     921312,
			ISize:     4813742,
			BuildDate: 1709221343,
		},
		{
			Name:      "python",
			Version:   "3.12.3-1",
			Desc:      "The Python programming language",
			URL:       "https://www.python.org/",
			Arch:      "x86_64",
			Licenses:  []string{"PSF-2.0"},
			Depends:   []string{"bzip2", "expat", "gdbm", "libffi", "libnsl", "libxcrypt", "openssl", "zlib"},
			Provides:  []string{"python3", "python-externally-managed"},
			CSize:     12101134,
			ISize:     68329811,
			BuildDate: 1712836811,
		},
		{
			Name:      "sed",
			Version:   "4.9-3",
			Desc:      "GNU stream editor",
			URL:       "https://www.gnu.org/software/sed/",
			Arch:      "x86_64",
			Groups:    []string{"base"},
			Licenses:  []string{"GPL-3.0-or-later"},
			Depends:   []string{"acl", "glibc"},
			CSize:     234412,
			ISize:     900422,
			BuildDate: 1683913231,
		},
	}
}

// Extra returns a second repository. It shares no package names with Core.
func Extra() []Package {
	return []Package{
		{
			Name:      "git",
			Version:   "2.44.0-1",
			Desc:      "the fast distributed version control system",
			URL:       "https://git-scm.com/",
			Arch:      "x86_64",
			Licenses:  []string{"GPL-2.0-only"},
			Depends:   []string{"curl", "expat", "perl", "openssl", "pcre2", "grep", "shadow", "zlib"},
			CSize:     6620192,
			ISize:     45023910,
			BuildDate: 1708980000,
		},
		{
			Name:      "python-pip",
			Version:   "24.0-2",
			Desc:      "The PyPA recommended tool for installing Python packages",
			URL:       "https://pip.pypa.io/",
			Arch:      "any",
			Licenses:  []string{"MIT"},
			Depends:   []string{"python"},
			CSize:     2701234,
			ISize:     14012034,
			BuildDate: 1710000000,
		},
		{
			Name:      "vim",
			Version:   "9.1.0252-1",
			Desc:      "Vi Improved, a highly configurable, improved version of the vi text editor",
			URL:       "https://www.vim.org",
			Arch:      "x86_64",
			Licenses:  []string{"Vim"},
			Depends:   []string{"vim-runtime=9.1.0252-1", "gpm", "acl", "glibc", "libgcrypt", "pcre", "zlib", "libxcrypt"},
			Provides:  []string{"xxd", "vi"},
			CSize:     1945001,
			ISize:     4711032,
			BuildDate: 1712000000,
		},
	}
}

// Installed returns the packages of Core installed on the fixture system.
func Installed() []Package {
	want := map[string]bool{"bash": true, "coreutils": true, "filesystem": true, "glibc": true, "linux": true, "pacman": true}
	var out []Package
	for _, p := range Core() {
		if want[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// Hello is a package suitable for WritePackageFile.
func Hello() Package {
	return Package{
		Name:      "hello",
		Version:   "2.12.1-1",
		Desc:      "Prints a friendly greeting",
		URL:       "https://www.gnu.org/software/hello/",
		Arch:      "x86_64",
		Packager:  packager,
		Groups:    []string{"demo"},
		Licenses:  []string{"GPL-3.0-or-later"},
		Depends:   []string{"glibc"},
		ISize:     181042,
		BuildDate: 1700000000,
	}
}
