// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package pe describes the DOS/PE32 executable header as a schema.
//
// The NT headers are anchored at the DOS header's e_lfanew value, the data
// directory table is sized by NumberOfRvaAndSizes and the section table by
// NumberOfSections. Importing the package registers the "pe32" format (Go
// definition) and the "pe32-yaml" format (the same layout loaded from the
// embedded schema document).
package pe

import (
	_ "embed"

	"github.com/MultiTechSystems/layout-schema/schema"
)

// Format names registered by this package.
const (
	FormatName     = "pe32"
	YAMLFormatName = "pe32-yaml"
)

// Machine types of IMAGE_FILE_HEADER.Machine.
var Machines = map[uint64]string{
	0x14c:  "IMAGE_FILE_MACHINE_I386",
	0x162:  "IMAGE_FILE_MACHINE_R3000",
	0x166:  "IMAGE_FILE_MACHINE_R4000",
	0x1c0:  "IMAGE_FILE_MACHINE_ARM",
	0x1c4:  "IMAGE_FILE_MACHINE_ARMNT",
	0x200:  "IMAGE_FILE_MACHINE_IA64",
	0x8664: "IMAGE_FILE_MACHINE_AMD64",
	0xaa64: "IMAGE_FILE_MACHINE_ARM64",
}

var optionalMagics = map[uint64]string{
	0x10b: "IMAGE_NT_OPTIONAL_HDR32_MAGIC",
	0x20b: "IMAGE_NT_OPTIONAL_HDR64_MAGIC",
	0x107: "IMAGE_ROM_OPTIONAL_HDR_MAGIC",
}

var subsystems = map[uint64]string{
	1:  "IMAGE_SUBSYSTEM_NATIVE",
	2:  "IMAGE_SUBSYSTEM_WINDOWS_GUI",
	3:  "IMAGE_SUBSYSTEM_WINDOWS_CUI",
	7:  "IMAGE_SUBSYSTEM_POSIX_CUI",
	9:  "IMAGE_SUBSYSTEM_WINDOWS_CE_GUI",
	10: "IMAGE_SUBSYSTEM_EFI_APPLICATION",
}

// DirectoryNames label the entries of the data directory table.
var DirectoryNames = []string{
	"Export",
	"Import",
	"Resource",
	"Exception",
	"Security",
	"BaseReloc",
	"Debug",
	"Architecture",
	"GlobalPtr",
	"TLS",
	"LoadConfig",
	"BoundImport",
	"IAT",
	"DelayImport",
	"COMDescriptor",
	"Reserved",
}

var (
	ImageDataDirectory = schema.NewStruct(
		schema.Field{Name: "VirtualAddress", Type: schema.U32()},
		schema.Field{Name: "Size", Type: schema.U32()},
	)

	ImageFileHeader = schema.NewStruct(
		schema.Field{Name: "Machine", Type: schema.NewEnum(schema.U16(), Machines)},
		schema.Field{Name: "NumberOfSections", Type: schema.U16()},
		schema.Field{Name: "TimeDateStamp", Type: schema.U32()},
		schema.Field{Name: "PointerToSymbolTable", Type: schema.U32()},
		schema.Field{Name: "NumberOfSymbols", Type: schema.U32()},
		schema.Field{Name: "SizeOfOptionalHeader", Type: schema.U16()},
		schema.Field{Name: "Characteristics", Type: schema.U16()},
	)

	// ImageOptionalHeader32 is the fixed part of the PE32 optional header;
	// the data directories follow it in ImageNTHeaders32.
	ImageOptionalHeader32 = schema.NewStruct(
		schema.Field{Name: "Magic", Type: schema.NewEnum(schema.U16(), optionalMagics)},
		schema.Field{Name: "LinkerVersion", Type: schema.U16()},
		schema.Field{Name: "SizeOfCode", Type: schema.U32()},
		schema.Field{Name: "SizeOfInitializedData", Type: schema.U32()},
		schema.Field{Name: "SizeOfUninitializedData", Type: schema.U32()},
		schema.Field{Name: "AddressOfEntryPoint", Type: schema.U32()},
		schema.Field{Name: "BaseOfCode", Type: schema.U32()},
		schema.Field{Name: "BaseOfData", Type: schema.U32()},
		schema.Field{Name: "ImageBase", Type: schema.U32()},
		schema.Field{Name: "SectionAlignment", Type: schema.U32()},
		schema.Field{Name: "FileAlignment", Type: schema.U32()},
		schema.Field{Name: "MajorOperatingSystemVersion", Type: schema.U16()},
		schema.Field{Name: "MinorOperatingSystemVersion", Type: schema.U16()},
		schema.Field{Name: "MajorImageVersion", Type: schema.U16()},
		schema.Field{Name: "MinorImageVersion", Type: schema.U16()},
		schema.Field{Name: "MajorSubsystemVersion", Type: schema.U16()},
		schema.Field{Name: "MinorSubsystemVersion", Type: schema.U16()},
		schema.Field{Name: "Win32VersionValue", Type: schema.U32()},
		schema.Field{Name: "SizeOfImage", Type: schema.U32()},
		schema.Field{Name: "SizeOfHeaders", Type: schema.U32()},
		schema.Field{Name: "CheckSum", Type: schema.U32()},
		schema.Field{Name: "Subsystem", Type: schema.NewEnum(schema.U16(), subsystems)},
		schema.Field{Name: "DllCharacteristics", Type: schema.U16()},
		schema.Field{Name: "SizeOfStackReserve", Type: schema.U32()},
		schema.Field{Name: "SizeOfStackCommit", Type: schema.U32()},
		schema.Field{Name: "SizeOfHeapReserve", Type: schema.U32()},
		schema.Field{Name: "SizeOfHeapCommit", Type: schema.U32()},
		schema.Field{Name: "LoaderFlags", Type: schema.U32()},
		schema.Field{Name: "NumberOfRvaAndSizes", Type: schema.U32()},
	)

	ImageSectionHeader = schema.NewStruct(
		schema.Field{Name: "Name", Type: schema.Text(8)},
		schema.Field{Name: "VirtualSize", Type: schema.U32()},
		schema.Field{Name: "VirtualAddress", Type: schema.U32()},
		schema.Field{Name: "SizeOfRawData", Type: schema.U32()},
		schema.Field{Name: "PointerToRawData", Type: schema.U32()},
		schema.Field{Name: "PointerToRelocations", Type: schema.U32()},
		schema.Field{Name: "PointerToLinenumbers", Type: schema.U32()},
		schema.Field{Name: "NumberOfRelocations", Type: schema.U16()},
		schema.Field{Name: "NumberOfLinenumbers", Type: schema.U16()},
		schema.Field{Name: "Characteristics", Type: schema.U32()},
	)

	ImageNTHeaders32 = schema.NewStruct(
		schema.Field{Name: "Signature", Type: schema.Text(4)},
		schema.Field{Name: "FileHeader", Type: ImageFileHeader},
		schema.Field{Name: "OptionalHeader", Type: ImageOptionalHeader32},
		schema.Field{Name: "DataDirectories", Type: schema.NewList(ImageDataDirectory,
			schema.CountAt(schema.MustPath("root.IMAGE_NT_HEADERS32.OptionalHeader.NumberOfRvaAndSizes")),
			DirectoryNames...)},
		schema.Field{Name: "Sections", Type: schema.NewList(ImageSectionHeader,
			schema.CountAt(schema.MustPath("root.IMAGE_NT_HEADERS32.FileHeader.NumberOfSections")))},
	)

	ImageDOSHeader = schema.NewStruct(
		schema.Field{Name: "e_magic", Type: schema.Text(2)},
		schema.Field{Name: "e_junk", Type: schema.Bytes(0x40 - 4 - 2)},
		schema.Field{Name: "e_lfanew", Type: schema.U32()},
	)

	// File is the root descriptor of a PE32 image.
	File = schema.NewStruct(
		schema.Field{Name: "dos", Type: ImageDOSHeader},
		schema.Field{
			Name: "IMAGE_NT_HEADERS32",
			Type: ImageNTHeaders32,
			At:   schema.MustPath("root.dos.e_lfanew"),
		},
	)
)

//go:embed pe32.yaml
var schemaYAML []byte

// LoadSchema parses the embedded schema document.
func LoadSchema() (*schema.Schema, error) {
	return schema.ParseSchema(schemaYAML)
}

// Decode decodes buf as a PE32 image. The result holds a partial tree when
// err is non-nil.
func Decode(buf []byte, opts ...schema.DecodeOption) (*schema.Result, error) {
	return schema.Decode(File, buf, opts...)
}

func init() {
	schema.Register(FormatName, File)

	s, err := LoadSchema()
	if err != nil {
		panic(err)
	}
	schema.Register(YAMLFormatName, s.Root)
}
