// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package treatment

// Maven runs builds in batch mode without transfer progress output.
func Maven() Family {
	return Family{
		Name:  "maven",
		Match: toolMatcher("mvn", "mvnw", "./mvnw"),
		Treat: appendFlags("-B", "-ntp"),
	}
}

// Gradle forces plain console output.
func Gradle() Family {
	return Family{
		Name:  "gradle",
		Match: toolMatcher("gradle", "gradlew", "./gradlew"),
		Treat: appendFlags("--console=plain"),
	}
}
